package config

const (
	_etc = "/usr/local/etc/materials-sheets"
	_var = "/usr/local/var/materials-sheets"

	DEFAULT_CONFIG      = _etc + "/materials-sheets.toml"
	DEFAULT_WORKDIR     = _var
	DEFAULT_CREDENTIALS = _etc + "/.google/credentials.json"
)
