package constants

const (
	ViperDatabaseURLKey  = "database.url"
	ViperHTTPAddrKey     = "http.addr"
	ViperCORSOriginsKey  = "http.cors_origins"
	ViperSecretKey       = "auth.jwt_secret"
	ViperLogLevelKey     = "log.level"
	ViperLogDevKey       = "log.development"
	ViperUpsertPolicyKey = "ingest.policy"
	ViperUploadDirKey    = "ingest.upload_dir"
)

const (
	CtxKeyUserID = "user_id"
	CtxKeyRole   = "role"
)

const (
	RoleUser       = "user"
	RoleSubscriber = "subscriber"
	RoleAdmin      = "admin"
)
