package entities

// Remedy holds the treatment record looked up for a detected disease.
type Remedy struct {
	Description       string   `json:"description"`
	OrganicTreatment  []string `json:"organic_treatment"`
	ChemicalTreatment []string `json:"chemical_treatment"`
}

// Diagnosis is the classifier result for a plant image, produced once on the
// first turn of a conversation.
type Diagnosis struct {
	Name       string  `json:"name"`
	Confidence float64 `json:"confidence"`
	Remedies   Remedy  `json:"remedies"`
}

// Weather holds current conditions at the farm. Pointer fields distinguish a
// missing reading from a genuine zero value.
type Weather struct {
	TempC       *float64 `json:"temp_c"`
	Humidity    *float64 `json:"humidity"`
	Description *string  `json:"description"`
	WindKph     *float64 `json:"wind_kph"`
}

// PeerReport is a simulated disease report from a nearby farm.
type PeerReport struct {
	FarmerID   string  `json:"farmer_id"`
	DistanceKm float64 `json:"distance_km"`
	Diagnosis  string  `json:"diagnosis"`
	ReportedOn string  `json:"reported_on"`
}
