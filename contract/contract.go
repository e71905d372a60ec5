// Package contract renders service contracts as plain text and saves them.
package contract

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"
	"time"

	"github.com/google/uuid"

	"maintenance-dispatch/models"
)

// DateLayout is the input format of contract start dates.
const DateLayout = "2006-01-02"

var contractTemplate = template.Must(template.New("contract").Funcs(template.FuncMap{
	"date":  func(t time.Time) string { return t.Format("02/01/2006") },
	"price": func(p float64) string { return fmt.Sprintf("%.2f", p) },
}).Parse(`
CONTRAT DE PRESTATION DE SERVICES
====================================
Référence : {{.Reference}}

Entre les soussignés :

La Société Prestataire :
[Nom de la société]
[Adresse de la société]
Représentée par : [Nom du représentant]

Et le Client :
Nom : {{.ClientName}}
Adresse : {{.ClientAddress}}

Date du Contrat : {{date .StartDate}}

Article 1 : Objet du Contrat
-----------------------------
Le présent contrat a pour objet la prestation de services de {{.ServiceType}}
par la Société Prestataire au Client.

Article 2 : Description des Services
------------------------------------
Les services incluent :
- Une intervention de {{.ServiceType}}
- Un diagnostic et une réparation si nécessaire.

Article 3 : Prix et Conditions de Paiement
--------------------------------------------
Le montant total de la prestation s'élève à {{price .Price}} EUR.
Le paiement s'effectuera par {{.PaymentTerms}}.

Article 4 : Durée du Contrat
------------------------------
Ce contrat prend effet le {{date .StartDate}} pour une durée de {{.DurationMonths}} mois.

Fait à [Lieu], le {{date .GeneratedAt}}
En deux exemplaires.

Pour la Société Prestataire,
[Signature]

Pour le Client,
{{.ClientName}}
[Signature]
`))

var (
	ErrMissingClient   = errors.New("client name is required")
	ErrNegativePrice   = errors.New("price must not be negative")
	ErrInvalidDuration = errors.New("duration must be at least one month")
)

// New fills a contract from its inputs. startDate uses DateLayout; an empty
// startDate means the day of now.
func New(clientName, clientAddress, serviceType string, price float64, startDate string, months int, paymentTerms string, now time.Time) (models.Contract, error) {
	c := models.Contract{
		Reference:      uuid.NewString(),
		ClientName:     strings.TrimSpace(clientName),
		ClientAddress:  clientAddress,
		ServiceType:    serviceType,
		Price:          price,
		DurationMonths: months,
		PaymentTerms:   paymentTerms,
		GeneratedAt:    now,
		StartDate:      now,
	}
	if startDate != "" {
		start, err := time.ParseInLocation(DateLayout, startDate, now.Location())
		if err != nil {
			return models.Contract{}, fmt.Errorf("invalid start date %q (expected YYYY-MM-DD): %w", startDate, err)
		}
		c.StartDate = start
	}
	if err := Validate(c); err != nil {
		return models.Contract{}, err
	}
	return c, nil
}

func Validate(c models.Contract) error {
	switch {
	case c.ClientName == "":
		return ErrMissingClient
	case c.Price < 0:
		return ErrNegativePrice
	case c.DurationMonths < 1:
		return ErrInvalidDuration
	}
	return nil
}

// Render returns the contract text.
func Render(c models.Contract) (string, error) {
	if err := Validate(c); err != nil {
		return "", err
	}
	var b strings.Builder
	if err := contractTemplate.Execute(&b, c); err != nil {
		return "", fmt.Errorf("render contract: %w", err)
	}
	return b.String(), nil
}

// FileName is contrat_<client>_<YYYYMMDD_HHMMSS>.txt, the client name
// lower-cased with spaces replaced by underscores.
func FileName(clientName string, at time.Time) string {
	name := strings.ToLower(strings.ReplaceAll(clientName, " ", "_"))
	name = strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' || r == os.PathSeparator {
			return '_'
		}
		return r
	}, name)
	return fmt.Sprintf("contrat_%s_%s.txt", name, at.Format("20060102_150405"))
}

// Save writes text to dir, creating dir if needed, and returns the path.
func Save(dir, clientName, text string, at time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create %s: %w", dir, err)
	}
	path := filepath.Join(dir, FileName(clientName, at))
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return "", fmt.Errorf("write contract: %w", err)
	}
	return path, nil
}
