package report

import (
	"fmt"
	"strings"

	"github.com/abhisek/aquasafe/internal/sample"
)

const systemPrompt = `You are an environmental and water-treatment engineering expert.

Write a structured expert report on the measured water sample:
1. Water quality classification: the overall grade (potable, marginal, industrial-grade, contaminated or similar).
2. Key issues: which parameters are out of range and why they matter.
3. Recommended treatment and filtration methods, and why each is recommended. Consider, without limiting yourself to them:
   - pH correction using lime, caustic soda, soda ash or CO2 dosing
   - turbidity removal by coagulation and flocculation (alum, ferric salts)
   - membrane separation (RO, UF, NF) for high conductivity or TDS
   - activated carbon filtration
   - aeration or oxygenation for low dissolved oxygen
   - ion exchange where applicable
   These are advisory engineering suggestions, not operational instructions.
4. Post-treatment uses: agricultural irrigation (name crops), horticulture or home gardening (name plant types), pisciculture or aquaculture (name fish where suitable), industrial or non-potable reuse.
5. Health and environmental considerations: remaining risks or precautions.
6. Short conclusion: two concise lines on treatment feasibility and reuse potential.

Keep the language simple and practical.`

// buildUserMessage lists the measurements and the system decision.
func buildUserMessage(in Input) string {
	var b strings.Builder

	b.WriteString("Measured water parameters:\n")
	for _, f := range sample.FeatureNames {
		spec := sample.Spec(f)
		fmt.Fprintf(&b, "- %s: %g", promptLabel(f, spec), in.Sample.Value(f))
		if spec.Unit != "" {
			fmt.Fprintf(&b, " %s", spec.Unit)
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "\nSystem decision: %s\n", in.Decision)
	fmt.Fprintf(&b, "ML confidence: %g\n", in.RoundedConfidence())

	return b.String()
}

func promptLabel(f sample.Field, spec sample.FieldSpec) string {
	switch f {
	case sample.FieldConductivity:
		return "Electrical Conductivity"
	case sample.FieldTDS:
		return "Total Dissolved Solids (TDS)"
	}
	return spec.Label
}
