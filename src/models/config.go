package models

// MConfig Structure
type MConfig struct {
	Name     string          `yaml:"name"`
	JobName  string          `yaml:"job_name"`
	Host     string          `yaml:"host"`
	Port     int             `yaml:"port"`
	LogLevel string          `yaml:"log_level"`
	Storage  MStorageConfig  `yaml:"storage"`
	Network  MNetworkConfig  `yaml:"network"`
	Calendar MCalendarConfig `yaml:"calendar"`
	Sources  []MSourceConfig `yaml:"sources"`
}

type MStorageConfig struct {
	DBType             string `yaml:"db_type"`
	DBPath             string `yaml:"db_path"`
	DBConnectionString string `yaml:"db_connection_string"`
	AuditDBPath        string `yaml:"audit_db_path"`
}

type MNetworkConfig struct {
	Enabled           bool     `yaml:"enabled"`
	Proxies           []string `yaml:"proxies"`
	RequestTimeout    int      `yaml:"timeout"`
	MaxRetries        int      `yaml:"retries"`
	MinRequestDelayMS int      `yaml:"min_request_delay_ms"`
	UserAgent         string   `yaml:"user_agent"`
}

type MCalendarConfig struct {
	CachePath string `yaml:"cache_path"`
	APIURL    string `yaml:"api_url"`
	APIKey    string `yaml:"api_key"`
	Market    string `yaml:"market"` // MIC code for the library fallback, e.g. "xnys"
}

type MSourceConfig struct {
	Name       string            `yaml:"name"`
	Fetcher    string            `yaml:"fetcher"`
	Params     map[string]string `yaml:"params"`
	Table      string            `yaml:"table"`
	NaturalKey []string          `yaml:"natural_key"`
}
