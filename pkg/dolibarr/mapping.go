package dolibarr

import (
	"fmt"
	"strings"
)

// ThirdPartyPayload is the request body for POST /thirdparties. Dolibarr
// expects every value as a string, including flags.
//
// The idprof slots follow the Algerian profile of Dolibarr:
// idprof1=RC, idprof2=NIF, idprof3=AI (article), idprof4=NIS,
// idprof5=CIN, idprof6=date CIN. The four business registration identifiers
// are independent opaque strings and must never be derived from one another.
type ThirdPartyPayload struct {
	Name        string `json:"name"`
	NameAlias   string `json:"name_alias"`
	Firstname   string `json:"firstname"`
	Lastname    string `json:"lastname"`
	Email       string `json:"email"`
	PhoneMobile string `json:"phone_mobile"`
	Address     string `json:"address"`
	Town        string `json:"town"`
	CountryCode string `json:"country_code"`
	Client      string `json:"client"`
	CodeClient  string `json:"code_client"`
	Fournisseur string `json:"fournisseur"`
	TypentCode  string `json:"typent_code"`
	Status      string `json:"status"`

	IDProf1 string `json:"idprof1,omitempty"`
	IDProf2 string `json:"idprof2,omitempty"`
	IDProf3 string `json:"idprof3,omitempty"`
	IDProf4 string `json:"idprof4,omitempty"`
	IDProf5 string `json:"idprof5,omitempty"`
	IDProf6 string `json:"idprof6,omitempty"`

	PriceLevel        string `json:"price_level,omitempty"`
	CondReglementCode string `json:"cond_reglement_code,omitempty"`
	ModeReglementCode string `json:"mode_reglement_code,omitempty"`
	FkAccount         string `json:"fk_account,omitempty"`

	NotePrivate string `json:"note_private"`
}

// MapParticuliers maps an individual subscriber form to a third-party payload.
func MapParticuliers(form map[string]string) ThirdPartyPayload {
	return ThirdPartyPayload{
		Name:        strings.TrimSpace(form["Prenom"] + " " + form["Nom"]),
		NameAlias:   form["Nom"],
		Firstname:   form["Prenom"],
		Lastname:    form["Nom"],
		Email:       form["email"],
		PhoneMobile: form["mobile"],
		Address:     form["Adresse"],
		Town:        form["place"],
		CountryCode: "DZ",
		Client:      "1",
		CodeClient:  "-1",
		Fournisseur: "0",
		TypentCode:  "TE_PRIVATE",
		Status:      "1",
		IDProf5:     form["Num_CIN"],
		IDProf6:     form["date_delivery"],
		NotePrivate: strings.Join([]string{
			"Autorité: " + form["authority"],
			fmt.Sprintf("CPE: %s (S/N: %s)", form["cpe_model"], form["cpe_serial"]),
			"Offre: " + form["internet_offer"],
			fmt.Sprintf("Coordonnées: %s, %s", form["latitude"], form["longitude"]),
			"Lieu: " + form["place"],
		}, "\n"),
	}
}

// MapEntreprise maps a company subscriber form to a third-party payload. The
// personal name slots carry the manager's identity.
func MapEntreprise(form map[string]string) ThirdPartyPayload {
	return ThirdPartyPayload{
		Name:        form["raison_sociale"],
		NameAlias:   form["raison_sociale"],
		Firstname:   form["Prenom"],
		Lastname:    form["Nom"],
		Email:       form["mail"],
		PhoneMobile: form["mobile_gerant"],
		Address:     form["Adresse_entreprise"],
		Town:        form["place"],
		CountryCode: "DZ",
		Client:      "1",
		CodeClient:  "-1",
		Fournisseur: "0",
		TypentCode:  "TE_SMALL",
		Status:      "1",
		IDProf1:     form["rc"],
		IDProf2:     form["nif"],
		IDProf3:     form["article"],
		IDProf4:     form["nis"],
		IDProf5:     form["numero_cin_gerant"],
		IDProf6:     form["date_cin_gerant"],

		PriceLevel:        "2",
		CondReglementCode: "RECEP",
		ModeReglementCode: "LIQ",
		FkAccount:         "1",

		NotePrivate: strings.Join([]string{
			fmt.Sprintf("Gérant: %s %s", form["Prenom"], form["Nom"]),
			"Autorité CIN: " + form["authority_gerant"],
			"Adresse installation: " + form["Adresse"],
			fmt.Sprintf("CPE: %s (S/N: %s)", form["cpe_model"], form["cpe_serial"]),
			"Offre: " + form["internet_offer"],
			fmt.Sprintf("Coordonnées: %s, %s", form["latitude"], form["longitude"]),
			"Lieu: " + form["place"],
		}, "\n"),
	}
}
