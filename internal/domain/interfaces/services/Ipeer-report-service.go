package Iservices

import "plant-advisor/internal/domain/entities"

type IPeerReportService interface {
	NearbyReports(lat, lon float64, currentDiagnosis string) []entities.PeerReport
}
