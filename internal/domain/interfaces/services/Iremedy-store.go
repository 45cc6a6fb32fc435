package Iservices

import "plant-advisor/internal/domain/entities"

type IRemedyStore interface {
	Lookup(disease string) entities.Remedy
}
