// models/client.go
package models

import "time"

// ClientFields is the flat identity, civil-status and professional record of
// a client. Every field is optional; absent fields stay empty and must never
// be fabricated downstream. The French JSON keys are the contract used by
// the completion step when injecting party data into a contrat.
type ClientFields struct {
	Nom                    string `bson:"nom,omitempty" json:"nom,omitempty"`
	Prenom                 string `bson:"prenom,omitempty" json:"prenom,omitempty"`
	NomNaissance           string `bson:"nom_naissance,omitempty" json:"nom_naissance,omitempty"`
	DateNaissance          string `bson:"date_naissance,omitempty" json:"date_naissance,omitempty"`
	LieuNaissance          string `bson:"lieu_naissance,omitempty" json:"lieu_naissance,omitempty"`
	Nationalite            string `bson:"nationalite,omitempty" json:"nationalite,omitempty"`
	Sexe                   string `bson:"sexe,omitempty" json:"sexe,omitempty"`
	Adresse                string `bson:"adresse,omitempty" json:"adresse,omitempty"`
	CodePostal             string `bson:"code_postal,omitempty" json:"code_postal,omitempty"`
	Ville                  string `bson:"ville,omitempty" json:"ville,omitempty"`
	Pays                   string `bson:"pays,omitempty" json:"pays,omitempty"`
	Telephone              string `bson:"telephone,omitempty" json:"telephone,omitempty"`
	Email                  string `bson:"email,omitempty" json:"email,omitempty"`
	EtatCivil              string `bson:"etat_civil,omitempty" json:"etat_civil,omitempty"`
	SituationMatrimoniale  string `bson:"situation_matrimoniale,omitempty" json:"situation_matrimoniale,omitempty"`
	TypeIdentite           string `bson:"type_identite,omitempty" json:"type_identite,omitempty"`
	NumeroIdentite         string `bson:"numero_identite,omitempty" json:"numero_identite,omitempty"`
	DateExpirationIdentite string `bson:"date_expiration_identite,omitempty" json:"date_expiration_identite,omitempty"`
	Profession             string `bson:"profession,omitempty" json:"profession,omitempty"`
	Employeur              string `bson:"employeur,omitempty" json:"employeur,omitempty"`
	AdresseProfessionnelle string `bson:"adresse_professionnelle,omitempty" json:"adresse_professionnelle,omitempty"`
	Siret                  string `bson:"siret,omitempty" json:"siret,omitempty"`
	NomEntreprise          string `bson:"nom_entreprise,omitempty" json:"nom_entreprise,omitempty"`
	VilleRCS               string `bson:"ville_rcs,omitempty" json:"ville_rcs,omitempty"`
}

// Client is a cabinet's client record.
type Client struct {
	ID        string       `bson:"id" json:"id"`
	CabinetID string       `bson:"cabinet_id" json:"cabinet_id"`
	CreatedBy string       `bson:"created_by" json:"created_by"`
	Fields    ClientFields `bson:"fields" json:"fields"`
	CreatedAt time.Time    `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time    `bson:"updated_at" json:"updated_at"`
}
