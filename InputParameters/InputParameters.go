package InputParameters

import (
	"fmt"

	"github.com/ghodss/yaml"
)

// Parameters obtained from the YAML input file
type AnalysisParameters struct {
	Title       string  `yaml:"Title"`
	Feet        int     `yaml:"Feet"`      // foot vertices per anchor: 0, 1 or 2
	FeetScale   float64 `yaml:"FeetScale"` // anchor to foot distance
	FeetAlpha   float64 `yaml:"FeetAlpha"` // double foot opening half-angle, degrees
	FeetTol     float64 `yaml:"FeetTol"`   // collinearity tolerance for corner test
	QMin        float64 `yaml:"QMin"`
	QMax        float64 `yaml:"QMax"`
	LMin        float64 `yaml:"LMin"`
	LMax        float64 `yaml:"LMax"`
	FMin        float64 `yaml:"FMin"`
	FMax        float64 `yaml:"FMax"`
	ZMax        float64 `yaml:"ZMax"`        // target height for vertical equilibrium
	XTol        float64 `yaml:"XTol"`        // relative height tolerance
	KMax        int     `yaml:"KMax"`        // solver iteration bound
	Precision   int     `yaml:"Precision"`   // decimals for endpoint welding
	CollapseTol float64 `yaml:"CollapseTol"` // small boundary edge cleanup threshold
}

func NewAnalysisParameters() *AnalysisParameters {
	return &AnalysisParameters{
		Title:       "FormDiagram",
		Feet:        2,
		FeetScale:   0.1,
		FeetAlpha:   45,
		FeetTol:     0.1,
		QMin:        1e-7,
		QMax:        1e+7,
		LMin:        1e-7,
		LMax:        1e+7,
		FMin:        1e-7,
		FMax:        1e+7,
		ZMax:        3,
		XTol:        1e-3,
		KMax:        200,
		Precision:   3,
		CollapseTol: 1e-2,
	}
}

func (ap *AnalysisParameters) Parse(data []byte) error {
	return yaml.Unmarshal(data, ap)
}

func (ap *AnalysisParameters) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", ap.Title)
	fmt.Printf("[%d]\t\t\t= Feet\n", ap.Feet)
	fmt.Printf("%8.5f\t\t= FeetScale\n", ap.FeetScale)
	fmt.Printf("%8.5f\t\t= FeetAlpha\n", ap.FeetAlpha)
	fmt.Printf("%8.5f\t\t= FeetTol\n", ap.FeetTol)
	fmt.Printf("%8.5f\t\t= ZMax\n", ap.ZMax)
	fmt.Printf("[%d]\t\t\t= KMax\n", ap.KMax)
	fmt.Printf("%v\t\t= q bounds\n", [2]float64{ap.QMin, ap.QMax})
	fmt.Printf("%v\t\t= l bounds\n", [2]float64{ap.LMin, ap.LMax})
	fmt.Printf("%v\t\t= f bounds\n", [2]float64{ap.FMin, ap.FMax})
}
