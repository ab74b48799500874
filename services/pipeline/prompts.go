// File: services/pipeline/prompts.go
//
// System prompts of the pipeline steps. All steps demand strict JSON output
// (no surrounding text) and forbid inventing information; the decode layer
// still strips code fences defensively.
package pipeline

import (
	"encoding/json"
	"fmt"
	"strings"

	"neira/models"
)

const clarifySystemPrompt = `Tu es un expert juridique spécialisé dans l'analyse de demandes de création de contrats.
Ton rôle est de transformer une demande en texte libre en un BRIEF STRUCTURÉ exploitable.

OBJECTIFS:
1. Identifier le type/variante exact du contrat
2. Identifier les parties et leurs rôles
3. Extraire le contexte et l'objectif
4. Repérer les points sensibles juridiques
5. Lister les annexes attendues
6. SURTOUT: Identifier les informations MANQUANTES critiques

RÈGLES STRICTES:
- NE JAMAIS INVENTER d'informations
- Si une info n'est pas fournie → la marquer comme MANQUANTE
- Priorités des infos manquantes:
  * "bloquant" = impossible de créer le contrat sans ça
  * "important" = qualité réduite sans ça
  * "optionnel" = améliore le contrat mais pas indispensable

- Points sensibles OBLIGATOIRES à vérifier selon type de contrat:
  * Dates et durées (début, fin, renouvellement)
  * Montants et modalités de paiement
  * Identité complète des parties
  * Clauses de résiliation
  * Juridiction compétente
  * Confidentialité / RGPD (si applicable)
  * Pénalités / dommages-intérêts
  * Propriété intellectuelle (si applicable)

FORMAT DE SORTIE: JSON strict
{
  "contractType": "Type exact du contrat",
  "variant": "Variante si applicable (ex: CDI, CDD)",
  "parties": [
    { "role": "Le vendeur", "description": "..." },
    { "role": "L'acquéreur", "description": "..." }
  ],
  "context": {
    "description": "Résumé du contexte",
    "objectif": "Objectif principal du contrat",
    "particularites": ["point 1", "point 2"]
  },
  "pointsSensibles": ["Clause de résiliation", "Modalités de paiement"],
  "annexesAttendues": ["Diagnostic technique", "Plan cadastral"],
  "missingInfo": [
    {
      "category": "Parties",
      "field": "identite_vendeur",
      "description": "Identité complète du vendeur (nom, prénom, adresse)",
      "priority": "bloquant"
    }
  ],
  "providedInfo": { "adresse_bien": "..." }
}

IMPORTANT: Retourne UNIQUEMENT le JSON, sans texte avant ou après.`

func buildClarifyUserPrompt(req models.ClarifyRequest) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Type de contrat: %s\n", req.ContractType)
	fmt.Fprintf(&sb, "Rôle du professionnel: %s\n", professionLabel(req.Role))
	description := req.Description
	if description == "" {
		description = "Contrat standard"
	}
	fmt.Fprintf(&sb, "Description de la demande:\n%s\n", description)
	if len(req.ExistingAnswers) > 0 {
		answers, _ := json.MarshalIndent(req.ExistingAnswers, "", "  ")
		fmt.Fprintf(&sb, "\nRéponses déjà fournies par le client:\n%s\n", answers)
	}
	sb.WriteString("\nAnalyse cette demande et génère le brief structuré.")
	return sb.String()
}

const schemaSystemPrompt = `Tu es un expert juridique qui conçoit des formulaires de collecte d'informations pour la rédaction de contrats.
À partir d'un brief structuré, génère le SCHÉMA DE FORMULAIRE complet que le professionnel présentera à son client.

RÈGLES:
- Chaque information nécessaire au contrat devient un champ
- Regroupe les champs par sections logiques (Parties, Objet, Montants, Durée, Clauses)
- Marque "required" les champs sans lesquels le contrat est invalide
- Ajoute les règles de validation croisées (ex: date_fin > date_debut)
- clientRoles liste les parties que le client peut représenter

FORMAT DE SORTIE: JSON strict
{
  "contractType": "...",
  "clientRoles": ["Le Vendeur", "L'Acquéreur"],
  "sections": [{ "id": "...", "title": "...", "fields": ["field_id"] }],
  "fields": [
    {
      "id": "prix_vente",
      "label": "Prix de vente",
      "type": "number",
      "required": true,
      "section": "montants",
      "validation": { "min": 0 }
    }
  ],
  "validationRules": [
    {
      "id": "r1",
      "type": "comparison",
      "description": "...",
      "fields": ["date_debut", "date_fin"],
      "rule": "date_fin > date_debut",
      "errorMessage": "..."
    }
  ]
}

Retourne UNIQUEMENT le JSON, sans texte avant ou après.`

func buildSchemaUserPrompt(contractType, role, originalRequest string, brief *models.ContractBrief) string {
	briefJSON, _ := json.MarshalIndent(brief, "", "  ")
	var sb strings.Builder
	fmt.Fprintf(&sb, "Type de contrat: %s\nRôle: %s\n\n", contractType, professionLabel(role))
	if originalRequest != "" {
		fmt.Fprintf(&sb, "Demande initiale:\n%s\n\n", originalRequest)
	}
	fmt.Fprintf(&sb, "BRIEF DU CONTRAT:\n%s\n\n", briefJSON)
	sb.WriteString("Génère le schéma de formulaire complet au format JSON.")
	return sb.String()
}

const auditSystemPrompt = `Tu es un auditeur juridique expert qui vérifie la QUALITÉ et la COMPLÉTUDE des formulaires de contrats.
Ton rôle: analyser un schéma de formulaire et repérer TOUS les problèmes.

CRITÈRES D'AUDIT:

1. CHAMPS MANQUANTS
- Vérifier que TOUS les champs essentiels pour ce type de contrat sont présents
- Exemples: vente immobilière → adresse bien, prix, diagnostics, conditions suspensives;
  contrat de travail → poste, rémunération, durée, lieu de travail, période d'essai;
  bail → loyer, charges, durée, état des lieux, dépôt de garantie

2. INCOHÉRENCES
- Dates: date_fin doit être > date_debut, durée cohérente
- Montants: positifs, cohérents entre eux
- Dépendances logiques: si X alors Y doit exister
- Rôles des parties: cohérents avec le type de contrat

3. VALIDATIONS MANQUANTES
- Champs obligatoires bien marqués
- Validations de format (email, téléphone, SIRET, etc.)
- Validations de cohérence (comparaisons entre champs)

4. CLAUSES SENSIBLES NON COUVERTES (CRITIQUE)
- Résiliation / Rupture, juridiction compétente, confidentialité, RGPD,
  pénalités de retard, force majeure, propriété intellectuelle,
  non-concurrence, assurances, garanties

SÉVÉRITÉ:
- "bloquant": Empêche la validité légale du contrat
- "important": Réduit fortement la qualité juridique
- "mineur": Amélioration possible

CORRECTIONS AUTOMATIQUES:
Pour chaque problème, propose une correction concrète:
- "add_field", "modify_field", "add_validation", "add_clause"

FORMAT DE SORTIE: JSON strict
{
  "issues": [
    {
      "id": "issue_1",
      "severity": "bloquant",
      "category": "champ_manquant",
      "title": "Titre court du problème",
      "description": "Description détaillée",
      "affectedFields": ["field1"],
      "suggestedFix": { "type": "add_field", "details": {} }
    }
  ],
  "hasCriticalIssues": true,
  "suggestions": ["Suggestion 1"],
  "correctedSchema": {}
}

RÈGLES:
- Sois STRICT et EXHAUSTIF
- Privilégie la SÉCURITÉ JURIDIQUE
- Adapte-toi au droit français
- Si pas de problème → retourne issues: [] mais vérifie quand même tout
- Le schéma corrigé doit être COMPLET et DIRECTEMENT UTILISABLE

Retourne UNIQUEMENT le JSON, sans texte avant ou après.`

func buildAuditUserPrompt(req models.AuditRequest) string {
	briefJSON, _ := json.MarshalIndent(req.Brief, "", "  ")
	schemaJSON, _ := json.MarshalIndent(req.Schema, "", "  ")
	return fmt.Sprintf(`Type de contrat: %s
Rôle: %s

BRIEF DU CONTRAT:
%s

SCHÉMA À AUDITER:
%s

Effectue un audit COMPLET et STRICT de ce schéma.
Retourne le rapport d'audit au format JSON avec les corrections.`,
		req.ContractType, professionLabel(req.Role), briefJSON, schemaJSON)
}

const completeSystemPromptFormat = `Tu es un assistant juridique expert. Ta mission est de compléter un contrat en remplaçant tous les "[À COMPLÉTER]" par les informations correctes des clients assignés à chaque partie.

RÈGLES STRICTES:
1. Analyse le contexte autour de chaque [À COMPLÉTER] pour comprendre quelle partie est concernée
2. Remplace uniquement par les informations disponibles de la partie concernée
3. Si une information n'existe pas pour un client, GARDE "[À COMPLÉTER]" (ne pas inventer)
4. Respecte exactement la mise en forme et la structure du contrat original
5. Ne modifie RIEN d'autre que les [À COMPLÉTER]
6. Sois cohérent: "né(e) le [DATE]", "de nationalité [NATIONALITE]", etc.

INFORMATIONS DES CLIENTS PAR PARTIE:
%s

Retourne UNIQUEMENT le contrat complété, sans commentaire ni explication.`

// partyLine pairs a French label with a client field value for the
// completion prompt. Empty values are skipped, never rendered.
type partyLine struct {
	label string
	value string
}

func formatPartyInfo(partyName string, c models.ClientFields) string {
	fullName := strings.TrimSpace(c.Prenom + " " + c.Nom)
	lines := []partyLine{
		{"Nom complet", fullName},
		{"Nom de naissance", c.NomNaissance},
		{"Date de naissance", c.DateNaissance},
		{"Lieu de naissance", c.LieuNaissance},
		{"Nationalité", c.Nationalite},
		{"Sexe", c.Sexe},
		{"Adresse", c.Adresse},
		{"Code postal", c.CodePostal},
		{"Ville", c.Ville},
		{"Pays", c.Pays},
		{"Téléphone", c.Telephone},
		{"Email", c.Email},
		{"État civil", c.EtatCivil},
		{"Situation matrimoniale", c.SituationMatrimoniale},
		{"Type d'identité", c.TypeIdentite},
		{"Numéro d'identité", c.NumeroIdentite},
		{"Date d'expiration", c.DateExpirationIdentite},
		{"Profession", c.Profession},
		{"Employeur", c.Employeur},
		{"Adresse professionnelle", c.AdresseProfessionnelle},
		{"SIRET", c.Siret},
		{"Nom entreprise", c.NomEntreprise},
		{"Ville RCS", c.VilleRCS},
	}

	var parts []string
	for _, l := range lines {
		if l.label == "Nom complet" || l.value != "" {
			parts = append(parts, fmt.Sprintf("%s: %s", l.label, l.value))
		}
	}
	return fmt.Sprintf("%s:\n  - %s", partyName, strings.Join(parts, "\n  - "))
}

func buildCompleteSystemPrompt(partiesClients map[string]models.ClientFields) string {
	parties := make([]string, 0, len(partiesClients))
	for name, fields := range partiesClients {
		parties = append(parties, formatPartyInfo(name, fields))
	}
	return fmt.Sprintf(completeSystemPromptFormat, strings.Join(parties, "\n\n"))
}

const generateSystemPrompt = `Tu es un juriste rédacteur expert en droit français. Rédige un contrat complet, structuré et directement utilisable à partir d'un schéma de formulaire et des données saisies.

RÈGLES:
1. Utilise exactement les données fournies, sans les reformuler
2. Pour chaque champ vide, manquant ou undefined: écris "[À COMPLÉTER]"
3. Structure: titre, identification des parties, articles numérotés, clauses sensibles, signatures
4. Intègre les clauses imposées par le brief (résiliation, juridiction, confidentialité si applicable)
5. Adapte le style au droit français

Retourne UNIQUEMENT le texte du contrat, sans commentaire.`

func buildGenerateUserPrompt(schema *models.FormSchema, formData map[string]interface{}, brief *models.ContractBrief) string {
	schemaJSON, _ := json.MarshalIndent(schema, "", "  ")
	dataJSON, _ := json.MarshalIndent(formData, "", "  ")
	var sb strings.Builder
	fmt.Fprintf(&sb, "Type de contrat: %s\n\n", schema.ContractType)
	if brief != nil {
		briefJSON, _ := json.MarshalIndent(brief, "", "  ")
		fmt.Fprintf(&sb, "BRIEF:\n%s\n\n", briefJSON)
	}
	fmt.Fprintf(&sb, "SCHÉMA DU FORMULAIRE:\n%s\n\nDONNÉES SAISIES:\n%s\n\n", schemaJSON, dataJSON)
	sb.WriteString("Rédige le contrat complet.")
	return sb.String()
}

func professionLabel(role string) string {
	if role == "notaire" {
		return "Notaire"
	}
	return "Avocat"
}
