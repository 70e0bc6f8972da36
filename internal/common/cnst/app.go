package cnst

const (
	// AppName is the name of the application
	AppName = "campolink"
	// CommandName is the name of the apiserver command
	CommandName = "apiserver"

	// ApiServerYaml is the default apiserver configuration file name
	ApiServerYaml = "apiserver.yaml"
)

const (
	// RedisClusterTypeSentinel represents a Redis sentinel deployment
	RedisClusterTypeSentinel = "sentinel"
	// RedisClusterTypeCluster represents a Redis cluster deployment
	RedisClusterTypeCluster = "cluster"
	// RedisClusterTypeSingle represents a single Redis instance
	RedisClusterTypeSingle = "single"
)
