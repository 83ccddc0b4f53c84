package initcmd

import (
	"context"
	"os"

	"github.com/colonyops/rollbook/internal/core/config"
	"github.com/colonyops/rollbook/internal/core/doctor"
)

// InitCheck validates the config written by the wizard.
type InitCheck struct {
	configPath string
	dataDir    string
}

// NewInitCheck creates a new init validation check.
func NewInitCheck(configPath, dataDir string) *InitCheck {
	return &InitCheck{configPath: configPath, dataDir: dataDir}
}

func (c *InitCheck) Name() string {
	return "Init Validation"
}

func (c *InitCheck) Run(ctx context.Context) doctor.Result {
	result := doctor.Result{Name: c.Name()}

	if _, err := os.Stat(c.configPath); err != nil {
		result.Items = append(result.Items, doctor.CheckItem{
			Label:  "Config file",
			Status: doctor.StatusFail,
			Detail: c.configPath + " not found",
		})
		return result
	}

	cfg, err := config.Load(c.configPath, c.dataDir)
	if err != nil {
		result.Items = append(result.Items, doctor.CheckItem{
			Label:  "Config file",
			Status: doctor.StatusFail,
			Detail: err.Error(),
		})
		return result
	}

	// The config check reports the file itself, validation and warnings.
	configResult := doctor.NewConfigCheck(cfg, c.configPath).Run(ctx)
	result.Items = append(result.Items, configResult.Items...)

	result.Items = append(result.Items, sourceItem(cfg.Lookups))
	return result
}

func sourceItem(l config.LookupsConfig) doctor.CheckItem {
	switch {
	case l.UsesFixtures():
		return doctor.CheckItem{Label: "Lookup source", Status: doctor.StatusPass, Detail: "fixtures"}
	case l.URL != "":
		return doctor.CheckItem{Label: "Lookup source", Status: doctor.StatusPass, Detail: l.URL}
	default:
		return doctor.CheckItem{Label: "Lookup source", Status: doctor.StatusWarn, Detail: "none configured"}
	}
}
