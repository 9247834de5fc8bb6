package dolibarr

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapParticuliersNameTrimming(t *testing.T) {
	p := MapParticuliers(map[string]string{"Nom": "Benali"})
	assert.Equal(t, "Benali", p.Name, "a missing first name must not leave a leading space")

	p = MapParticuliers(map[string]string{"Nom": "Benali", "Prenom": "Yacine"})
	assert.Equal(t, "Yacine Benali", p.Name)
}

func TestMapParticuliersDefaults(t *testing.T) {
	p := MapParticuliers(map[string]string{})
	assert.Equal(t, "DZ", p.CountryCode)
	assert.Equal(t, "1", p.Client)
	assert.Equal(t, "-1", p.CodeClient, "the ERP assigns the client code itself")
	assert.Equal(t, "0", p.Fournisseur)
	assert.Equal(t, "1", p.Status)
	assert.Empty(t, p.PriceLevel)
}

func TestMapEntrepriseIdentifiersStayIndependent(t *testing.T) {
	form := map[string]string{
		"raison_sociale": "SARL Exemple",
		"rc":             "RC-1", "nif": "NIF-2", "article": "AI-3", "nis": "NIS-4",
	}
	p := MapEntreprise(form)
	assert.Equal(t, "RC-1", p.IDProf1)
	assert.Equal(t, "NIF-2", p.IDProf2)
	assert.Equal(t, "AI-3", p.IDProf3)
	assert.Equal(t, "NIS-4", p.IDProf4)
}

func TestMapEntrepriseManagerInNotes(t *testing.T) {
	p := MapEntreprise(map[string]string{
		"raison_sociale": "SARL Exemple",
		"Prenom":         "Amine", "Nom": "Cherif",
		"authority_gerant": "Daïra de Bab El Oued",
		"Adresse":          "Zone industrielle lot 12",
	})
	assert.Contains(t, p.NotePrivate, "Gérant: Amine Cherif")
	assert.Contains(t, p.NotePrivate, "Daïra de Bab El Oued")
	assert.Contains(t, p.NotePrivate, "Zone industrielle lot 12")
}
