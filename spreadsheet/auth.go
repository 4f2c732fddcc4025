package spreadsheet

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/sheets/v4"

	"github.com/uhppoted/uhppoted-lib/log"
)

// Scopes required to update the spreadsheet and export it as a PDF.
var Scopes = []string{
	sheets.SpreadsheetsScope,
	drive.DriveReadonlyScope,
}

// Authorize returns an HTTP client authorised for the scopes. Service account
// credentials are used directly; OAuth2 client credentials need a token
// previously saved by Authenticate in the tokens directory.
func Authorize(ctx context.Context, credentials, tokens string, scopes ...string) (*http.Client, error) {
	b, err := os.ReadFile(credentials)
	if err != nil {
		return nil, err
	}

	if isServiceAccount(b) {
		config, err := google.JWTConfigFromJSON(b, scopes...)
		if err != nil {
			return nil, err
		}

		return config.Client(ctx), nil
	}

	config, err := google.ConfigFromJSON(b, scopes...)
	if err != nil {
		return nil, err
	}

	file := TokenFile(credentials, tokens)
	token, err := tokenFromFile(file)
	if err != nil {
		return nil, fmt.Errorf("missing or invalid authorisation token %v - run 'authorise' (%w)", file, err)
	}

	return config.Client(ctx, token), nil
}

// Authenticate runs the interactive OAuth2 authorisation for client credentials,
// reading the authorisation code from 'in' and saving the token to the tokens
// directory.
func Authenticate(ctx context.Context, credentials, tokens string, in io.Reader, out io.Writer, scopes ...string) error {
	b, err := os.ReadFile(credentials)
	if err != nil {
		return err
	}

	if isServiceAccount(b) {
		return fmt.Errorf("%v is a service account key and does not require authorisation", credentials)
	}

	config, err := google.ConfigFromJSON(b, scopes...)
	if err != nil {
		return err
	}

	url := config.AuthCodeURL("state-token", oauth2.AccessTypeOffline)

	fmt.Fprintf(out, "Go to the following link in your browser then type the authorization code: \n%v\n", url)

	var code string
	if _, err := fmt.Fscan(in, &code); err != nil {
		return fmt.Errorf("unable to read authorization code (%w)", err)
	}

	token, err := config.Exchange(ctx, code)
	if err != nil {
		return fmt.Errorf("unable to retrieve token from web (%w)", err)
	}

	return saveToken(TokenFile(credentials, tokens), token)
}

// TokenFile returns the token cache file for a credentials file e.g.
// <tokens>/credentials.tokens.
func TokenFile(credentials, tokens string) string {
	dir, file := filepath.Split(credentials)
	name := strings.TrimSuffix(file, filepath.Ext(file))

	if tokens != "" {
		dir = tokens
	}

	return filepath.Join(dir, fmt.Sprintf("%s.tokens", name))
}

func isServiceAccount(b []byte) bool {
	credentials := struct {
		Type string `json:"type"`
	}{}

	if err := json.Unmarshal(b, &credentials); err != nil {
		return false
	}

	return credentials.Type == "service_account"
}

func tokenFromFile(file string) (*oauth2.Token, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}

	defer f.Close()

	token := oauth2.Token{}
	if err := json.NewDecoder(f).Decode(&token); err != nil {
		return nil, err
	}

	return &token, nil
}

func saveToken(path string, token *oauth2.Token) error {
	log.Infof("saving credential file to %v", path)

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("unable to cache oauth token (%w)", err)
	}

	defer f.Close()

	return json.NewEncoder(f).Encode(token)
}
