package constants

const (
	TenderTypeGoods   = "Goods"
	TenderTypeService = "Service"
	TenderTypeWorks   = "Works"
)

const (
	NonDivisible = "Non-Divisible"
	Divisible    = "Divisible"
)

// Two front-ends read supplying capacity differently, caller picks explicitly
const (
	CapacityBasisQuantity = "quantity"
	CapacityBasisPercent  = "percent"
)

var (
	// procurement group code -> display name
	GroupOptions = map[string]string{
		"1":  "LPG",
		"2":  "GAS/HRS/CBG",
		"3":  "E&P GOODS",
		"4":  "E&P SERVICES",
		"6":  "LUBES",
		"7":  "PIPELINES",
		"8":  "BIOFUELS/DISPOSELS",
		"9":  "RETAIL/IS",
		"10": "TRANSPORT",
	}

	TenderTypes = map[string]bool{
		TenderTypeGoods:   true,
		TenderTypeService: true,
		TenderTypeWorks:   true,
	}

	ManufacturerTypes = map[string]bool{
		"Original Equipment Manufacturer": true,
		"Authorized Channel Partner":      true,
		"Authorized Agent":                true,
		"Dealer":                          true,
		"Authorized Distributor":          true,
	}

	DivisibilityOptions = map[string]bool{
		NonDivisible: true,
		Divisible:    true,
	}

	PlatformOptions = map[string]bool{
		"GeM":           true,
		"E-procurement": true,
	}

	DivisionPatterns = []string{"80:20", "70:20:10"}
)
