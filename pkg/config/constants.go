package config

const (
	EnvPrefix = ""

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "SMARTMERCHANT_DB_DSN"
	EnvDBHost = "SMARTMERCHANT_DB_HOST"
	EnvDBUser = "SMARTMERCHANT_DB_USER"
	EnvDBName = "SMARTMERCHANT_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
