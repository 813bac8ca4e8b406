// Package schema binds the logical columns this service works with to
// the actual column names of the Baserow base.
//
// The base is maintained by organizers and its columns are named in
// Hebrew; code never hardcodes those names. A default mapping matching
// the production base is embedded, and any subset of it can be
// overridden from a YAML file. The mapping is validated once at startup
// so a renamed column fails fast with a clear diagnostic instead of
// surfacing as a silent no-match during a sync run.
package schema

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed default_schema.yaml
var defaultSchema []byte

// Column-fragment resolution errors. Both abort the calling operation;
// they signal a schema mismatch, not a bad row.
var (
	ErrColumnNotFound  = errors.New("schema: no matching column")
	ErrColumnAmbiguous = errors.New("schema: ambiguous column fragment")
)

// Schema is the full column mapping plus the base's value conventions.
type Schema struct {
	Activists     ActivistColumns     `yaml:"activists"`
	Registrations RegistrationColumns `yaml:"registrations"`
	Recruitment   RecruitmentColumns  `yaml:"recruitment"`
	Values        Values              `yaml:"values"`
}

// ActivistColumns names the columns of the activists table.
type ActivistColumns struct {
	FullName          string `yaml:"full_name"`
	NationalID        string `yaml:"national_id"`
	IDValid           string `yaml:"id_valid"`
	NormalizedPhone   string `yaml:"normalized_phone"`
	Phone             string `yaml:"phone"`
	Email             string `yaml:"email"`
	Facebook          string `yaml:"facebook"`
	RishumonName      string `yaml:"rishumon_name"`
	ElectorName       string `yaml:"elector_name"`
	RishumonBirthdate string `yaml:"rishumon_birthdate"`
	Candidate         string `yaml:"candidate"`
	SavedAsContact    string `yaml:"saved_as_contact"`
	Clearance         string `yaml:"clearance"`
	UUID              string `yaml:"uuid"`
}

// RegistrationColumns names the columns of the event registrations table.
// EmailFragment and FacebookFragment are not full column names: the form
// builder versions its field names, so they are matched as fragments
// against the live columns (see ResolveColumn).
type RegistrationColumns struct {
	NormalizedPhone  string `yaml:"normalized_phone"`
	FullName         string `yaml:"full_name"`
	SubmissionTime   string `yaml:"submission_time"`
	Training         string `yaml:"training"`
	EmailFragment    string `yaml:"email_fragment"`
	FacebookFragment string `yaml:"facebook_fragment"`
}

// RecruitmentColumns names the columns of the recruitment candidates table.
type RecruitmentColumns struct {
	Phone     string `yaml:"phone"`
	Activists string `yaml:"activists"`
}

// Values holds the base's data conventions: the yes/no labels of its
// select fields and a handful of markers written into cells.
type Values struct {
	Yes string `yaml:"yes"`
	No  string `yaml:"no"`

	// IDValidYesOption is the select-option id of the "yes" choice on
	// the id-valid column, needed for single-select filters.
	IDValidYesOption int `yaml:"id_valid_yes_option"`

	// NotFound is written into a name column when no registry has the id.
	NotFound string `yaml:"not_found"`

	// ClearancePrefix marks activists who passed vetting; the clearance
	// column holds free text beginning with it.
	ClearancePrefix string `yaml:"clearance_prefix"`

	// ContactTag is the organization tag embedded in exported contact names.
	ContactTag string `yaml:"contact_tag"`
}

// Load returns the embedded default mapping, with the YAML file at path
// (when non-empty) merged over it. The result is validated.
func Load(path string) (*Schema, error) {
	s := &Schema{}
	if err := yaml.Unmarshal(defaultSchema, s); err != nil {
		return nil, fmt.Errorf("schema: parse embedded default: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("schema: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, s); err != nil {
			return nil, fmt.Errorf("schema: parse %s: %w", path, err)
		}
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate checks that every required name is present.
// Returns an error describing all missing entries at once.
func (s *Schema) Validate() error {
	var missing []string

	check := func(key, val string) {
		if strings.TrimSpace(val) == "" {
			missing = append(missing, key)
		}
	}

	check("activists.full_name", s.Activists.FullName)
	check("activists.national_id", s.Activists.NationalID)
	check("activists.id_valid", s.Activists.IDValid)
	check("activists.normalized_phone", s.Activists.NormalizedPhone)
	check("activists.phone", s.Activists.Phone)
	check("activists.email", s.Activists.Email)
	check("activists.facebook", s.Activists.Facebook)
	check("activists.rishumon_name", s.Activists.RishumonName)
	check("activists.elector_name", s.Activists.ElectorName)
	check("activists.rishumon_birthdate", s.Activists.RishumonBirthdate)
	check("activists.candidate", s.Activists.Candidate)
	check("activists.saved_as_contact", s.Activists.SavedAsContact)
	check("activists.clearance", s.Activists.Clearance)
	check("activists.uuid", s.Activists.UUID)

	check("registrations.normalized_phone", s.Registrations.NormalizedPhone)
	check("registrations.full_name", s.Registrations.FullName)
	check("registrations.submission_time", s.Registrations.SubmissionTime)
	check("registrations.training", s.Registrations.Training)
	check("registrations.email_fragment", s.Registrations.EmailFragment)
	check("registrations.facebook_fragment", s.Registrations.FacebookFragment)

	check("recruitment.phone", s.Recruitment.Phone)
	check("recruitment.activists", s.Recruitment.Activists)

	check("values.yes", s.Values.Yes)
	check("values.no", s.Values.No)
	check("values.not_found", s.Values.NotFound)
	check("values.clearance_prefix", s.Values.ClearancePrefix)
	check("values.contact_tag", s.Values.ContactTag)

	if s.Values.IDValidYesOption <= 0 {
		missing = append(missing, "values.id_valid_yes_option")
	}

	if len(missing) > 0 {
		return fmt.Errorf("schema: missing entries:\n  - %s", strings.Join(missing, "\n  - "))
	}
	return nil
}

// ResolveColumn finds the one column name containing fragment. Exactly
// one match is required: zero means the column is gone, several mean the
// fragment no longer pins down a single column. Either way the caller
// must stop rather than guess.
func ResolveColumn(columns []string, fragment string) (string, error) {
	var matches []string
	for _, name := range columns {
		if strings.Contains(name, fragment) {
			matches = append(matches, name)
		}
	}

	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		return "", fmt.Errorf("%w: no column name contains %q", ErrColumnNotFound, fragment)
	default:
		return "", fmt.Errorf("%w: %q matches %d columns: %s",
			ErrColumnAmbiguous, fragment, len(matches), strings.Join(matches, ", "))
	}
}
