package services

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
	"sync"
	"time"

	"plant-advisor/internal/domain/entities"
	"plant-advisor/internal/infra/logger"
)

// A pool of simulated disease reports to draw from. In a real deployment this
// would be a database query keyed on the caller's coordinates.
var simulatedDiseaseReports = []entities.PeerReport{
	{FarmerID: "F728", DistanceKm: 2.5, Diagnosis: "Tomato___Late_blight"},
	{FarmerID: "F319", DistanceKm: 4.1, Diagnosis: "Tomato___Septoria_leaf_spot"},
	{FarmerID: "F882", DistanceKm: 1.5, Diagnosis: "Tomato___Late_blight"},
	{FarmerID: "F501", DistanceKm: 5.0, Diagnosis: "Pepper__bell___Bacterial_spot"},
	{FarmerID: "F112", DistanceKm: 3.8, Diagnosis: "Potato___Early_blight"},
	{FarmerID: "F431", DistanceKm: 6.2, Diagnosis: "Tomato___Tomato_Yellow_Leaf_Curl_Virus"},
	{FarmerID: "F609", DistanceKm: 2.1, Diagnosis: "Potato___Late_blight"},
	{FarmerID: "F218", DistanceKm: 0.8, Diagnosis: "Tomato___Late_blight"},
}

// PeerReportService simulates recent diagnoses reported by nearby farms.
type PeerReportService struct {
	Logger *logger.Logger

	mu  sync.Mutex
	rng *rand.Rand
}

func NewPeerReportService(log *logger.Logger, seed int64) *PeerReportService {
	return &PeerReportService{Logger: log, rng: rand.New(rand.NewSource(seed))}
}

// NearbyReports returns 3 to 5 synthetic reports sorted by distance. At least
// two of them always share the current diagnosis, so the caller can count on
// same-label entries being present. Coordinates are accepted for interface
// parity but ignored by the simulation.
func (ps *PeerReportService) NearbyReports(lat, lon float64, currentDiagnosis string) []entities.PeerReport {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	matching := make([]entities.PeerReport, 0, 4)
	others := make([]entities.PeerReport, 0, len(simulatedDiseaseReports))
	for _, report := range simulatedDiseaseReports {
		if report.Diagnosis == currentDiagnosis {
			matching = append(matching, report)
		} else {
			others = append(others, report)
		}
	}

	// Top up with synthetic same-label reports to simulate a local outbreak.
	for len(matching) < 2 {
		matching = append(matching, entities.PeerReport{
			FarmerID:   fmt.Sprintf("F%d", 900+ps.rng.Intn(100)),
			DistanceKm: math.Round((1.0+ps.rng.Float64()*4.0)*10) / 10,
			Diagnosis:  currentDiagnosis,
		})
	}

	ps.rng.Shuffle(len(matching), func(i, j int) { matching[i], matching[j] = matching[j], matching[i] })
	ps.rng.Shuffle(len(others), func(i, j int) { others[i], others[j] = others[j], others[i] })

	total := 3 + ps.rng.Intn(3)
	selected := make([]entities.PeerReport, 0, total)
	selected = append(selected, matching[:2]...)

	remaining := append(append([]entities.PeerReport{}, matching[2:]...), others...)
	for _, report := range remaining {
		if len(selected) >= total {
			break
		}
		selected = append(selected, report)
	}

	today := time.Now()
	for i := range selected {
		selected[i].ReportedOn = today.AddDate(0, 0, -ps.rng.Intn(8)).Format("2006-01-02")
	}

	sort.Slice(selected, func(i, j int) bool { return selected[i].DistanceKm < selected[j].DistanceKm })
	return selected
}
