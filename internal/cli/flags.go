package cli

import (
	"time"

	"pta/internal/config"
)

// Flags holds command-line flags.
type Flags struct {
	Workspace  string
	RunnerPath string
	Filter     string
	Grace      time.Duration
	PrepareDB  bool
	CasesOnly  bool
	OpenFaills bool
}

// ToConfigFlags converts CLI flags to config flags.
func (f *Flags) ToConfigFlags() config.Flags {
	return config.Flags{
		RunnerPath: f.RunnerPath,
		Filter:     f.Filter,
		Grace:      f.Grace,
		PrepareDB:  f.PrepareDB,
		CasesOnly:  f.CasesOnly,
		OpenFaills: f.OpenFaills,
	}
}
