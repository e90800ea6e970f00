// Package emergency resolves real-world emergency contacts and financial
// support resources from the user's situation text.
package emergency

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed contacts.yaml
var defaultTables []byte

// DefaultRegion is assumed when callers do not specify one.
const DefaultRegion = "india"

// Contact categories surfaced to the user.
const (
	CategoryPolice   = "Police"
	CategoryMedical  = "Ambulance"
	CategoryConsumer = "Consumer Helpline"
)

var (
	vehicleTerms  = []string{"car", "vehicle", "bike", "scooter", "motorcycle"}
	theftTerms    = []string{"stolen", "theft", "robbery", "fraud", "scam", "cheated"}
	lostTerms     = []string{"lost", "missing"}
	medicalTerms  = []string{"medical", "hospital", "health", "accident", "injury", "emergency"}
	consumerTerms = []string{"fraud", "scam", "cheated", "consumer"}
)

type tables struct {
	FinancialSupport map[string][]string          `yaml:"financial_support"`
	Contacts         map[string]map[string]string `yaml:"contacts"`
}

// Directory holds the region contact tables. It is immutable after load and
// safe for concurrent reads.
type Directory struct {
	t tables
}

// NewDirectory builds a Directory from the embedded default tables.
func NewDirectory() *Directory {
	d, err := parseDirectory(defaultTables)
	if err != nil {
		// The embedded tables are validated by tests; a parse failure here
		// is a build defect, not a runtime condition.
		panic(fmt.Sprintf("emergency: embedded contact tables invalid: %v", err))
	}
	return d
}

// LoadDirectory reads contact tables from a YAML file, for deployments that
// override the built-in numbers.
func LoadDirectory(path string) (*Directory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read contact tables: %v", err)
	}
	return parseDirectory(data)
}

func parseDirectory(data []byte) (*Directory, error) {
	var t tables
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("failed to parse contact tables: %v", err)
	}
	if t.Contacts == nil {
		return nil, fmt.Errorf("contact tables missing 'contacts' section")
	}
	return &Directory{t: t}, nil
}

// Contacts matches the situation text against the three category rule sets
// and returns the relevant region contacts. An empty map means no emergency
// overlay is needed; it is not an error.
func (d *Directory) Contacts(situationText, region string) map[string]string {
	if region == "" {
		region = DefaultRegion
	}
	contacts := make(map[string]string)
	text := strings.ToLower(situationText)

	// Theft, robbery or fraud, or a lost vehicle, all warrant a police report.
	if containsAny(text, theftTerms) || (containsAny(text, vehicleTerms) && containsAny(text, lostTerms)) {
		contacts[CategoryPolice] = d.lookup("police", region)
	}
	if containsAny(text, medicalTerms) {
		contacts[CategoryMedical] = d.lookup("ambulance", region)
	}
	if containsAny(text, consumerTerms) {
		contacts[CategoryConsumer] = d.lookup("consumer_helpline", region)
	}
	return contacts
}

// Resources returns the financial support links for a region.
func (d *Directory) Resources(region string) []string {
	if region == "" {
		region = DefaultRegion
	}
	return d.t.FinancialSupport[region]
}

// lookup resolves a category contact for a region, falling back to the
// "general" entry for unknown regions.
func (d *Directory) lookup(category, region string) string {
	entry := d.t.Contacts[category]
	if v, ok := entry[region]; ok {
		return v
	}
	return entry["general"]
}

func containsAny(text string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(text, term) {
			return true
		}
	}
	return false
}
