package cfg

type Cfg struct {
	// Storage configuration
	DBPath      string
	BlocksDir   string
	CatalogFile string

	// Application configuration
	Port              string
	BaseUrl           string
	WorkerCount       int
	SchedulerInterval int
	APIAccessKey      string
	ModuleName        string

	// Application metadata
	UserAgent string
	Timezone  string
	Debug     bool
	Version   string
}
