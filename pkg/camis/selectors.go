// Package camis drives the CAMIS timesheet application through a
// browser session: sign-in (including the TOTP second factor), descent
// into the nested frames hosting the timesheet grid, an index of the
// entries already on screen, and the reconcile-and-fill pass that
// writes requested work into matching draft rows or new rows.
package camis

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Selectors holds the literal CSS selectors addressing the application
// and identity-provider markup. They must match the remote markup
// exactly; any markup change on the remote side is a breaking change
// outside this system's control.
type Selectors struct {
	// Identity-provider sign-in page.
	LoginUser     string `yaml:"login_user"`
	LoginPassword string `yaml:"login_password"`
	LoginOTP      string `yaml:"login_otp"`
	OTPSubmit     string `yaml:"otp_submit"`

	// Frame hierarchy: the functional UI sits two document levels deep.
	Frame    string `yaml:"frame"`
	Subframe string `yaml:"subframe"`

	// Timesheet controls.
	DateInput  string `yaml:"date_input"`
	AddButton  string `yaml:"add_button"`
	SaveButton string `yaml:"save_button"`

	// Entry rows and their per-row cells (relative to a row).
	EntryRow       string `yaml:"entry_row"`
	RowStatus      string `yaml:"row_status"`
	RowWorkorder   string `yaml:"row_workorder"`
	RowActivity    string `yaml:"row_activity"`
	RowDescription string `yaml:"row_description"`
	RowHours       string `yaml:"row_hours"`
	RowReady       string `yaml:"row_ready"`
}

// DefaultSelectors returns the selector table matching the current
// CAMIS and Microsoft sign-in markup.
func DefaultSelectors() Selectors {
	return Selectors{
		LoginUser:     "#i0116",
		LoginPassword: "#i0118",
		LoginOTP:      "#idTxtBx_SAOTCC_OTC",
		OTPSubmit:     "#idSubmit_SAOTCC_Continue",

		Frame:    "iframe",
		Subframe: "frame",

		DateInput:  "#b_s71_s84_s85_l84s85_ctl00_date_in_period_i",
		AddButton:  "#b_s89_g89s90_buttons__newButton",
		SaveButton: `#b\$tblsysSave`,

		EntryRow:       "#b_s89_g89s90 tbody tr.inputrow",
		RowStatus:      "input[id$='_status']",
		RowWorkorder:   "input[id$='_work_order']",
		RowActivity:    "input[id$='_activity']",
		RowDescription: "input[id$='_description']",
		RowHours:       "input[id$='_number_of_hours']",
		RowReady:       "input[id$='_ready_flag']",
	}
}

// LoadSelectors reads selector overrides from a YAML file. Fields
// absent from the file keep their default values.
func LoadSelectors(path string) (Selectors, error) {
	selectors := DefaultSelectors()

	data, err := os.ReadFile(path)
	if err != nil {
		return Selectors{}, fmt.Errorf("read selectors file: %w", err)
	}

	if err := yaml.Unmarshal(data, &selectors); err != nil {
		return Selectors{}, fmt.Errorf("parse selectors file %s: %w", path, err)
	}
	return selectors, nil
}
