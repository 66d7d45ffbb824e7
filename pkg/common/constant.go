package common

const (
	EnvKeyGoEnv string = "GO_ENV"

	EnvKeyRunIntegrationTests string = "RUN_INTEGRATION_TESTS"

	EnvKeyMDMDBType string = "MDM_DB_TYPE"
	EnvKeyMDMDbPath string = "MDM_DB_PATH"

	EnvKeyMDMHttpHostPort string = "MDM_HTTP_HOST_PORT"

	EnvKeyMDMDefaultRate  string = "MDM_DEFAULT_RATE"
	EnvKeyMDMDefaultBurst string = "MDM_DEFAULT_BURST"

	EnvKeyMDMOfflineAfterSeconds string = "MDM_OFFLINE_AFTER_SECONDS"
	EnvKeyMDMSweepSpec           string = "MDM_SWEEP_SPEC"
	EnvKeyMDMDeviceTokenSecret   string = "MDM_DEVICE_TOKEN_SECRET"

	LoggerNameMDMCore       string = "mdm_core"
	LoggerNameRestfulServer string = "restful_server"
	LoggerNameWsServer      string = "ws_server"
	LoggerFieldMDMCategory  string = "category"

	LoggerCategoryMDMRegistry string = "registry"
	LoggerCategoryMDMQueue    string = "queue"
	LoggerCategoryMDMMonitor  string = "monitor"
	LoggerCategoryMDMNotify   string = "notify"
	LoggerCategoryMDMAuthz    string = "authz"
)
