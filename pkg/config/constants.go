package config

const (
	EnvPrefix = "niasotac"

	AppEnvDev  = "development"
	AppEnvProd = "production"

	EnvAppEnv = "NIASOTAC_APP_ENV"
	EnvDBDSN  = "NIASOTAC_DB_DSN"
	EnvDBHost = "NIASOTAC_DB_HOST"
	EnvDBUser = "NIASOTAC_DB_USER"
	EnvDBName = "NIASOTAC_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
