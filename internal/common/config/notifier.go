package config

type (
	// NotifierConfig represents the configuration for the cross-process
	// event backplane
	NotifierConfig struct {
		Role  string      `yaml:"role"` // receiver, sender, or both
		Type  string      `yaml:"type"` // local or redis
		Redis RedisConfig `yaml:"redis"`
	}

	// RedisConfig represents the configuration for the Redis-based notifier
	RedisConfig struct {
		ClusterType string `yaml:"cluster_type"` // single, sentinel, cluster
		Addr        string `yaml:"addr"`
		MasterName  string `yaml:"master_name"`
		Username    string `yaml:"username"`
		Password    string `yaml:"password"`
		DB          int    `yaml:"db"`
		Topic       string `yaml:"topic"`
	}
)

// NotifierRole represents the role of a notifier
type NotifierRole string

const (
	// RoleReceiver represents a notifier that can only receive emissions
	RoleReceiver NotifierRole = "receiver"
	// RoleSender represents a notifier that can only publish emissions
	RoleSender NotifierRole = "sender"
	// RoleBoth represents a notifier that can both publish and receive
	RoleBoth NotifierRole = "both"
)
