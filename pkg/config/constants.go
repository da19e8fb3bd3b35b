package config

const (
	EnvPrefix = "STOCKTRAIL"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "STOCKTRAIL_DB_DSN"
	EnvDBHost = "STOCKTRAIL_DB_HOST"
	EnvDBUser = "STOCKTRAIL_DB_USER"
	EnvDBName = "STOCKTRAIL_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
