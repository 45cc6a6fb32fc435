package services

import (
	"encoding/json"
	"fmt"
	"os"

	"plant-advisor/internal/domain/entities"
	"plant-advisor/internal/infra/logger"
)

// defaultRemedyDescription is served whenever a disease label has no entry in
// the remedy data.
const defaultRemedyDescription = "No specific remedy information found for this condition."

// RemedyStore serves treatment records loaded once from a JSON file at
// startup. An unknown label always yields a usable default record.
type RemedyStore struct {
	Logger   *logger.Logger
	remedies map[string]entities.Remedy
}

func NewRemedyStore(log *logger.Logger, path string) *RemedyStore {
	store := &RemedyStore{Logger: log, remedies: map[string]entities.Remedy{}}

	data, err := os.ReadFile(path)
	if err != nil {
		log.Warn(fmt.Sprintf("Remedy data file %s could not be read: %v. Serving default records only.", path, err))
		return store
	}

	if err := json.Unmarshal(data, &store.remedies); err != nil {
		log.Error(fmt.Sprintf("Failed to parse remedy data file %s: %v. Serving default records only.", path, err))
		store.remedies = map[string]entities.Remedy{}
		return store
	}

	log.Info(fmt.Sprintf("Loaded %d remedy records from %s", len(store.remedies), path))
	return store
}

func (rs *RemedyStore) Lookup(disease string) entities.Remedy {
	if remedy, ok := rs.remedies[disease]; ok {
		return remedy
	}
	return entities.Remedy{
		Description:       defaultRemedyDescription,
		OrganicTreatment:  []string{},
		ChemicalTreatment: []string{},
	}
}
