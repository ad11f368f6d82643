package version

// Version describes the running runbook binary.
type Version struct {
	RunbookVersion string `json:"runbook_version"`
}

// VERSION is set at build time via -ldflags.
var VERSION string

func Get() (Version, error) {
	v := VERSION
	if v == "" {
		v = "dev"
	}
	return Version{RunbookVersion: v}, nil
}
