package config

const (
	_etc = "/usr/local/etc/com.github.tunnelworks"
	_var = "/usr/local/var/com.github.tunnelworks"

	DEFAULT_CONFIG      = _etc + "/materials-sheets.toml"
	DEFAULT_WORKDIR     = _var
	DEFAULT_CREDENTIALS = _etc + "/.google/credentials.json"
)
