package pipeline

import (
	"github.com/mlderes/dstoolkit/internal/config"
	"github.com/mlderes/dstoolkit/internal/datastore"
	"github.com/mlderes/dstoolkit/internal/naming"
)

// Discover lists the recipe's input candidates, {pattern}*.csv in the input
// area, newest first. The first entry is the file Run reads.
func Discover(cfg *config.Config) ([]naming.Candidate, error) {
	dir, err := datastore.NewDataFolder(cfg.DataRoot).Area(cfg.Input.Area)
	if err != nil {
		return nil, err
	}
	return naming.Candidates(dir, cfg.Input.Pattern, datastore.TableExt)
}
