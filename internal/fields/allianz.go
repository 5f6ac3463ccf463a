package fields

import (
	"regexp"

	"github.com/nachoviau/automatizacion-broker/internal"
)

// Tab keys mirror the AbsaNet alta form.
const (
	TabConditions = "condiciones"
	TabVehicle    = "vehiculo"
	TabAmounts    = "montos"
)

// AllianzAuto returns the extraction rules for Allianz auto policies.
// Declaration order is the fallback fill order and the order of the
// missing-fields report. Dependencies encode AbsaNet quirks: the risk
// dropdown repopulates after the insurer is chosen, the client lookup is
// scoped by producer, and the first-installment picker derives its options
// from the effective date.
func AllianzAuto() *Set {
	return MustSet([]Definition{
		{
			Key:      "insurer",
			Kind:     KindFixed,
			Fixed:    "ALLIANZ",
			Required: true,
			Tab:      TabConditions,
			Strategy: internal.StrategySelect,
		},
		{
			Key:       "risk_type",
			Kind:      KindFixed,
			Fixed:     "AUTO",
			Required:  true,
			Tab:       TabConditions,
			Strategy:  internal.StrategySelect,
			DependsOn: []string{"insurer"},
		},
		{
			Key: "producer",
			Patterns: []*regexp.Regexp{
				regexp.MustCompile(`(?i)Nombre\s+y\s+Apellido\s+o\s+Raz[oó]n\s+Social\s*:?\s*([^\n]+)`),
				regexp.MustCompile(`(?i)Productor\s*:?\s*([^\n]+)`),
			},
			Kind:     KindText,
			Required: true,
			Tab:      TabConditions,
			Strategy: internal.StrategySelectSearch,
		},
		{
			Key: "currency",
			Patterns: []*regexp.Regexp{
				regexp.MustCompile(`(?i)Moneda\s+del\s+contrato\s*[:.·]?\s*([A-ZÁÉÍÓÚ$]{3,})`),
				regexp.MustCompile(`(?i)Moneda\s+del\s+contrato[\s.·:]*\n\s*([A-ZÁÉÍÓÚ$]{3,})`),
			},
			Kind:     KindCurrency,
			Required: true,
			Tab:      TabConditions,
			Strategy: internal.StrategySelect,
		},
		{
			Key:      "ssn_contact_type",
			Kind:     KindFixed,
			Fixed:    "PRESENCIAL",
			Required: true,
			Tab:      TabConditions,
			Strategy: internal.StrategySelect,
		},
		{
			Key: "vat_condition",
			Patterns: []*regexp.Regexp{
				regexp.MustCompile(`(?i)Condici[oó]n\s*I\.?V\.?A\.?\s*:?\s*([^\n]+)`),
			},
			Kind:     KindText,
			Required: true,
			Tab:      TabConditions,
			Strategy: internal.StrategySelect,
		},
		{
			Key:      "renewal_type",
			Kind:     KindFixed,
			Fixed:    "AUTOMATICA",
			Required: true,
			Tab:      TabConditions,
			Strategy: internal.StrategySelect,
		},
		{
			Key:      "adjustment_clause",
			Kind:     KindFixed,
			Fixed:    "0",
			Required: true,
			Tab:      TabConditions,
			Strategy: internal.StrategyInput,
		},
		{
			Key:      "installments",
			Kind:     KindFixed,
			Fixed:    "1",
			Required: true,
			Tab:      TabConditions,
			Strategy: internal.StrategySelect,
		},
		{
			Key:      "term_type",
			Kind:     KindFixed,
			Fixed:    "anual",
			Required: true,
			Tab:      TabConditions,
			Strategy: internal.StrategySelect,
		},
		{
			Key: "effective_date",
			Patterns: []*regexp.Regexp{
				regexp.MustCompile(`(?i)Vigencia\s+desde\s*:?\s*(\d{1,2}[-/.]\d{1,2}[-/.]\d{2,4})`),
				regexp.MustCompile(`(?i)Vigencia[\s\S]{0,200}?(\d{1,2}[-/.]\d{1,2}[-/.]\d{2,4})`),
			},
			Kind:     KindDate,
			Required: true,
			Tab:      TabConditions,
			Strategy: internal.StrategyInput,
		},
		{
			Key:      "rebilling",
			Kind:     KindFixed,
			Fixed:    "mensual",
			Required: true,
			Tab:      TabConditions,
			Strategy: internal.StrategySelect,
		},
		{
			Key: "client_name",
			Patterns: []*regexp.Regexp{
				regexp.MustCompile(`(?i)Nombre\s+y\s+Apellido\s*:?\s*([^\n]+)`),
			},
			Kind:      KindText,
			Required:  true,
			Tab:       TabConditions,
			Strategy:  internal.StrategyAutocomplete,
			DependsOn: []string{"producer"},
		},
		{
			Key: "brand",
			Patterns: []*regexp.Regexp{
				regexp.MustCompile(`(?mi)^\s*Marca\s*:?\s*([^\n]+?)\s*(?:\bA[ñn]o\b[^\n]*|\bPatente\b[^\n]*|\bDominio\b[^\n]*|\bChasis\b[^\n]*|\bVIN\b[^\n]*|\bMotor\b[^\n]*)?$`),
				regexp.MustCompile(`(?i)Marca\s*:?\s*([^\n]+)`),
			},
			Kind:     KindText,
			Required: true,
			Tab:      TabVehicle,
			Strategy: internal.StrategySelectSearch,
		},
		{
			Key: "vehicle_model",
			Patterns: []*regexp.Regexp{
				regexp.MustCompile(`(?i)Modelo\s*:?\s*([^\n]+)`),
			},
			Kind:     KindText,
			Tab:      TabVehicle,
			Strategy: internal.StrategyInput,
		},
		{
			Key: "fuel_type",
			Patterns: []*regexp.Regexp{
				regexp.MustCompile(`(?i)Combustible\s*:?\s*([^\n]+)`),
			},
			Kind:     KindText,
			Tab:      TabVehicle,
			Strategy: internal.StrategySelect,
		},
		{
			Key: "model_year",
			Patterns: []*regexp.Regexp{
				regexp.MustCompile(`(?i)\bA[nñ]o\b\s*:?\s*((?:19|20)\d{2})`),
				regexp.MustCompile(`(?i)\bA[nñ]o\b\s*:?\s*(\d{4})`),
			},
			Kind:     KindInt,
			Required: true,
			Tab:      TabVehicle,
			Strategy: internal.StrategySelectSearch,
		},
		{
			Key: "license_plate",
			Patterns: []*regexp.Regexp{
				regexp.MustCompile(`(?i)(?:Patente|Dominio)\s*:?\s*([A-Z0-9][A-Z0-9- ]{3,8}[A-Z0-9])`),
			},
			Kind:     KindPlate,
			Required: true,
			Tab:      TabVehicle,
			Strategy: internal.StrategyInput,
		},
		{
			Key: "chassis_number",
			Patterns: []*regexp.Regexp{
				regexp.MustCompile(`(?i)(?:Chasis|VIN)\s*:?\s*([A-Z0-9]{8,20})`),
				regexp.MustCompile(`(?i)(?:Chasis|VIN)\s*:?\s*([A-Z0-9]+)`),
			},
			Kind:     KindIdentifier,
			Required: true,
			Tab:      TabVehicle,
			Strategy: internal.StrategyInput,
		},
		{
			Key: "engine_number",
			Patterns: []*regexp.Regexp{
				regexp.MustCompile(`(?i)Motor\s*:?\s*([A-Z0-9]+)`),
			},
			Kind:     KindIdentifier,
			Required: true,
			Tab:      TabVehicle,
			Strategy: internal.StrategyInput,
		},
		{
			Key: "net_premium",
			Patterns: []*regexp.Regexp{
				regexp.MustCompile(`(?i)\bprima\b[ \t]*:?[ \t]*([^\n]+)`),
				regexp.MustCompile(`(?i)\bprima\b[\s:]*((?:U\$S|ARS|USD|\$)?[ \t]*-?[\d.,]+)`),
			},
			Kind:     KindMoney,
			Required: true,
			Tab:      TabAmounts,
			Strategy: internal.StrategyInput,
		},
		{
			Key: "total_premium",
			Patterns: []*regexp.Regexp{
				regexp.MustCompile(`(?i)\bpremio\b[ \t]*:?[ \t]*([^\n]+)`),
				regexp.MustCompile(`(?i)\bpremio\b[\s:]*((?:U\$S|ARS|USD|\$)?[ \t]*-?[\d.,]+)`),
			},
			Kind:     KindMoney,
			Required: true,
			Tab:      TabAmounts,
			Strategy: internal.StrategyInput,
		},
		{
			Key: "policy_number",
			Patterns: []*regexp.Regexp{
				regexp.MustCompile(`(?i)n[uú]mero\s*de\s*p[oó]liza\s*:?\s*([A-Z0-9/.-]+)`),
			},
			Kind:     KindText,
			Required: true,
			Tab:      TabAmounts,
			Strategy: internal.StrategyInput,
		},
		{
			Key: "issue_date",
			Patterns: []*regexp.Regexp{
				regexp.MustCompile(`(?i)Lugar\s+y\s+Fecha\s+de\s+Emisi[oó]n[:\s,]*([^\n]*\d{4})`),
			},
			Kind:     KindDate,
			Required: true,
			Tab:      TabAmounts,
			Strategy: internal.StrategyInput,
		},
		{
			Key: "first_installment_due",
			Patterns: []*regexp.Regexp{
				regexp.MustCompile(`(?i)plan\s+de\s+pago[\s\S]*?(\d{1,2}[-/.]\d{1,2}[-/.]\d{2,4})`),
				regexp.MustCompile(`(?i)Vencimiento\s*(?:1(?:ra|ª|°)?|primera)[^\d\n]*(\d{1,2}[-/.]\d{1,2}[-/.]\d{2,4})`),
			},
			Kind:      KindDate,
			Required:  true,
			Tab:       TabAmounts,
			Strategy:  internal.StrategyInput,
			DependsOn: []string{"effective_date"},
		},
	})
}
