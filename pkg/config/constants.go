package config

// EnvPrefix is the envconfig prefix shared by all settings.
const EnvPrefix = "GROCEMART"

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

// Canonical env var names, used by tests and error messages.
const (
	EnvAppEnv   = "GROCEMART_APP_ENV"
	EnvPort     = "GROCEMART_APP_PORT"
	EnvDBDSN    = "GROCEMART_DB_DSN"
	EnvDBHost   = "GROCEMART_DB_HOST"
	EnvDBUser   = "GROCEMART_DB_USER"
	EnvDBName   = "GROCEMART_DB_NAME"
	EnvRedisURL = "GROCEMART_REDIS_URL"

	EnvJWTSecret  = "GROCEMART_JWT_SECRET"
	EnvJWTIssuer  = "GROCEMART_JWT_ISSUER"
	EnvJWTExpMins = "GROCEMART_JWT_EXPIRATION_MINUTES"

	EnvGCPProjectID            = "GROCEMART_GCP_PROJECT_ID"
	EnvPubSubOrdersTopic       = "GROCEMART_PUBSUB_ORDERS_TOPIC"
	EnvPubSubOrdersSubscription = "GROCEMART_PUBSUB_ORDERS_SUBSCRIPTION"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
