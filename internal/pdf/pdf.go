// Package pdf renders bons de commande with go-pdf/fpdf: logo and company
// block, supplier and delivery panels, the line table with wrapping and
// pagination, a status watermark, and the contract clauses appended at the
// end.
package pdf

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"

	"achatshub/internal/config"
	"achatshub/internal/model"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
)

// US Letter in points.
const (
	pageLargeur = 612.0
	pageHauteur = 792.0
	margeBasse  = 50.0
)

// Table geometry. Four columns: détails, quantité, prix unitaire, total.
var colonnes = [4]struct {
	x       float64
	largeur float64
	align   string
}{
	{60, 290, "L"},
	{350, 70, "C"},
	{420, 80, "R"},
	{500, 80, "R"},
}

const (
	tableX        = 60.0
	tableLargeur  = 290 + 70 + 80 + 80
	hauteurEntete = 25.0
	hauteurLigne  = 15.0
)

type Engine struct {
	cfg *config.Config
}

func NewEngine(cfg *config.Config) *Engine { return &Engine{cfg: cfg} }

// Composer renders the order to PDF bytes.
func (e *Engine) Composer(_ context.Context, c *model.BonCommande) ([]byte, error) {
	doc := fpdf.New("P", "pt", "Letter", "")
	doc.SetAutoPageBreak(false, 0)
	tr := doc.UnicodeTranslatorFromDescriptor("")

	r := &rendu{doc: doc, tr: tr, cfg: e.cfg, commande: c}
	r.nouvellePage()
	r.blocAvis()
	r.blocFournisseurEtLivraison()
	r.tableLignes()
	r.pagesClauses()

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf: %w", err)
	}
	return buf.Bytes(), nil
}

type rendu struct {
	doc      *fpdf.Fpdf
	tr       func(string) string
	cfg      *config.Config
	commande *model.BonCommande
}

// nouvellePage opens a page with the watermark, logo, company block and PO
// header, which repeat on every page of the table.
func (r *rendu) nouvellePage() {
	r.doc.AddPage()
	r.filigrane()
	r.logo()
	r.blocCompagnie()
	r.enTeteCommande()
}

// filigrane stamps ANNULÉ or RÉVISION diagonally across cancelled and revised
// orders so a printed copy can never pass for a live one.
func (r *rendu) filigrane() {
	var texte string
	switch r.commande.Statut {
	case model.CommandeAnnulee:
		texte = "ANNULÉ"
	case model.CommandeEnRevision:
		texte = "RÉVISION"
	default:
		return
	}
	r.doc.TransformBegin()
	r.doc.TransformRotate(-55, 10, 50)
	r.doc.SetAlpha(0.1, "Normal")
	r.doc.SetTextColor(255, 0, 0)
	r.doc.SetFont("Helvetica", "B", 190)
	r.doc.Text(10, 50, r.tr(texte))
	r.doc.SetAlpha(1, "Normal")
	r.doc.TransformEnd()
	r.doc.SetTextColor(0, 0, 0)
}

func (r *rendu) logo() {
	if r.cfg.LogoPath == "" {
		return
	}
	if _, err := os.Stat(r.cfg.LogoPath); err != nil {
		return
	}
	r.doc.ImageOptions(r.cfg.LogoPath, 50, 30, 0, 60, false,
		fpdf.ImageOptions{ReadDpi: true}, 0, "")
}

func (r *rendu) blocCompagnie() {
	r.doc.SetFont("Helvetica", "", 10)
	lignes := []string{
		r.cfg.CompanyName,
		r.cfg.CompanyAddress,
		r.cfg.CompanyCity,
		r.cfg.CompanyPostal,
		r.cfg.CompanyPhone,
	}
	y := 120.0
	for _, l := range lignes {
		r.doc.Text(50, y, r.tr(l))
		y += 15
	}
}

func (r *rendu) enTeteCommande() {
	x := pageLargeur - 200
	r.doc.SetFont("Helvetica", "B", 10)
	r.doc.Text(x, 50, r.tr("Bon de commande"))
	r.doc.SetFont("Helvetica", "B", 20)
	r.doc.Text(x, 80, r.tr(r.commande.NumeroBonCommande))

	r.doc.SetFont("Helvetica", "", 10)
	r.doc.Text(x, 100, r.tr("Date émis"))
	r.doc.Text(pageLargeur-130, 100, ": "+r.commande.CreatedAt.Format("2006-01-02"))
	if r.commande.DateLivraison != nil {
		r.doc.Text(x, 110, r.tr("Date livraison"))
		r.doc.Text(pageLargeur-130, 110, ": "+r.commande.DateLivraison.Format("2006-01-02"))
	}
}

// blocAvis is the yellow invoice-instructions box. First page only.
func (r *rendu) blocAvis() {
	x := pageLargeur - 300
	r.doc.SetFillColor(255, 255, 230)
	r.doc.Rect(x, 120, 295, 70, "F")

	r.doc.SetFont("Helvetica", "B", 10)
	r.doc.Text(x+10, 140, "IMPORTANT")
	r.doc.SetFont("Helvetica", "", 8)
	r.doc.Text(x+10, 155, r.tr("Assurez-vous d'inscrire le numéro de commande sur votre facture."))
	r.doc.Text(x+10, 165, r.tr("Toute facture sans ce numéro ne pourra être acceptée."))
	r.doc.Text(x+10, 175, r.tr("VEUILLEZ SVP TRANSMETTRE TOUTES VOS FACTURES"))
	r.doc.Text(x+10, 185, r.tr("PAR COURRIEL À L'ADRESSE SUIVANTE: "+r.cfg.BillingEmail))
}

// blocFournisseurEtLivraison draws the COMMANDE À and LIVRÉ À panels plus the
// project line. First page only.
func (r *rendu) blocFournisseurEtLivraison() {
	const yBase = 250.0
	demande := r.commande.DemandeAchat

	r.doc.SetFont("Helvetica", "B", 12)
	r.doc.Text(50, yBase-40, r.tr("COMMANDE À"))
	r.doc.SetFont("Helvetica", "", 10)
	if demande != nil && demande.Fournisseur != nil {
		f := demande.Fournisseur
		r.doc.Text(50, yBase-20, r.tr(valeur(f.NomFournisseur)))
		r.doc.Text(50, yBase-5, r.tr(valeur(f.AdresseLigne1)))
		r.doc.Text(50, yBase+10, r.tr(valeur(f.Ville)+", "+valeur(f.CodePostal)))
	}

	xDroite := pageLargeur/2 + 10
	r.doc.SetFont("Helvetica", "B", 12)
	r.doc.Text(xDroite, yBase-40, r.tr("LIVRÉ À"))
	r.blocLivraison(xDroite, yBase)

	r.doc.SetFont("Helvetica", "B", 12)
	r.doc.Text(50, yBase+40, "Projet ")
	r.doc.SetFont("Helvetica", "", 10)
	if demande != nil && demande.Projet != nil {
		r.doc.Text(100, yBase+40, r.tr(demande.Projet.NumeroProjet+" - "+demande.Projet.Nom))
	}
}

func (r *rendu) blocLivraison(x, yBase float64) {
	demande := r.commande.DemandeAchat
	option := r.commande.DeliveryOption
	typeLivraison := r.commande.TypeLivraison

	switch {
	case option == "projet" && demande != nil && demande.Projet != nil && demande.Projet.AddresseLivraison != nil:
		projet := demande.Projet
		if typeLivraison == "Non Applicable" {
			r.doc.SetFont("Helvetica", "", 10)
			r.doc.Text(x, yBase-20, r.tr(*projet.AddresseLivraison))
			if projet.Surintendant != nil {
				r.doc.Text(x, yBase-5, r.tr("Contact: "+*projet.Surintendant))
			}
		} else {
			r.doc.SetFont("Helvetica", "B", 10)
			r.doc.Text(x, yBase-20, r.tr("Méthode de livraison: "+typeLivraison))
			r.doc.SetFont("Helvetica", "", 10)
			r.doc.Text(x, yBase-5, r.tr(*projet.AddresseLivraison))
			if projet.Surintendant != nil {
				r.doc.Text(x, yBase+10, r.tr("Contact: "+*projet.Surintendant))
			}
		}
	case option == "siege_social":
		r.doc.SetFont("Helvetica", "B", 10)
		r.doc.Text(x, yBase-20, r.tr("Méthode de livraison: "+typeLivraison))
		r.doc.SetFont("Helvetica", "", 10)
		r.doc.Text(x, yBase-5, r.tr(r.cfg.HQDeliveryLine1))
		r.doc.Text(x, yBase+10, r.tr(r.cfg.HQDeliveryLine2))
		r.doc.Text(x, yBase+25, r.tr(r.cfg.HQContact))
	case option == "pickup":
		r.doc.SetFont("Helvetica", "B", 10)
		r.doc.Text(x, yBase-20, r.tr("Ramassage en "+typeLivraison))
	}
}

// ── Table ─────────────────────────────────────────────────────────────────────

func (r *rendu) enTeteTable(y float64) float64 {
	r.doc.SetFillColor(230, 230, 230)
	r.doc.SetDrawColor(0, 0, 0)
	r.doc.SetLineWidth(1)
	r.doc.Rect(tableX, y, tableLargeur, hauteurEntete, "FD")

	r.doc.SetFont("Helvetica", "B", 9)
	milieu := y + hauteurEntete/2 + 3
	r.celluleTexte("DÉTAILS", 0, milieu)
	r.celluleTexte("QTÉ", 1, milieu)
	r.celluleTexte("$/UNITÉ", 2, milieu)
	r.celluleTexte("TOTAL", 3, milieu)
	return y + hauteurEntete
}

// celluleTexte places one string in column col at baseline y, honouring the
// column's alignment.
func (r *rendu) celluleTexte(texte string, col int, y float64) {
	c := colonnes[col]
	t := r.tr(texte)
	largeurTexte := r.doc.GetStringWidth(t)
	x := c.x + 5
	switch c.align {
	case "R":
		x = c.x + c.largeur - largeurTexte - 5
	case "C":
		x = c.x + (c.largeur-largeurTexte)/2
	}
	r.doc.Text(x, y, t)
}

func (r *rendu) tableLignes() {
	y := r.enTeteTable(310)
	r.doc.SetFont("Helvetica", "", 9)

	total := decimal.Zero
	for _, l := range r.commande.Lignes {
		numeroActivite := ""
		if l.LigneDemande != nil && l.LigneDemande.Activite != nil {
			numeroActivite = l.LigneDemande.Activite.NumeroActivite
		}
		description := Sanitize(numeroActivite + " : " + l.DescriptionArticle)
		lignesTexte := r.couperTexte(description, colonnes[0].largeur-10)
		hauteur := HauteurRangee(len(lignesTexte))

		// New page when the row would cross the bottom margin.
		if y+hauteur > pageHauteur-margeBasse {
			r.nouvellePage()
			y = r.enTeteTable(150)
			r.doc.SetFont("Helvetica", "", 9)
		}

		r.doc.Rect(tableX, y, tableLargeur, hauteur, "D")
		for i := 1; i < len(colonnes); i++ {
			r.doc.Line(colonnes[i].x, y, colonnes[i].x, y+hauteur)
		}

		yTexte := y + 12 + 7
		for _, lt := range lignesTexte {
			c := colonnes[0]
			r.doc.Text(c.x+5, yTexte, r.tr(lt))
			yTexte += hauteurLigne
		}

		montant := l.PrixUnitaire.Mul(decimal.NewFromInt(int64(l.Quantite)))
		total = total.Add(montant)
		milieu := y + hauteur/2 + 3
		r.celluleTexte(fmt.Sprintf("%d", l.Quantite), 1, milieu)
		r.celluleTexte(Montant(l.PrixUnitaire), 2, milieu)
		r.celluleTexte(Montant(montant), 3, milieu)

		y += hauteur
	}

	const hauteurTotal = 30.0
	if y+hauteurTotal > pageHauteur-margeBasse {
		r.nouvellePage()
		y = r.enTeteTable(150)
	}
	r.doc.Rect(tableX, y, tableLargeur, hauteurTotal, "D")
	r.doc.SetFont("Helvetica", "B", 9)
	milieu := y + hauteurTotal/2 + 3
	r.celluleTexte("Total:", 2, milieu)
	r.celluleTexte(Montant(total), 3, milieu)
}

// couperTexte wraps text to maxWidth, keeping explicit line breaks and only
// word-wrapping the lines that overflow.
func (r *rendu) couperTexte(texte string, maxWidth float64) []string {
	var out []string
	for _, ligne := range strings.Split(texte, "\n") {
		if strings.TrimSpace(ligne) == "" {
			continue
		}
		if r.doc.GetStringWidth(r.tr(ligne)) <= maxWidth {
			out = append(out, ligne)
			continue
		}
		mots := strings.Split(ligne, " ")
		courante := mots[0]
		for _, mot := range mots[1:] {
			essai := courante + " " + mot
			if r.doc.GetStringWidth(r.tr(essai)) <= maxWidth {
				courante = essai
			} else {
				out = append(out, courante)
				courante = mot
			}
		}
		if courante != "" {
			out = append(out, courante)
		}
	}
	return out
}

// HauteurRangee is the table row height for a description spanning n wrapped
// lines: 15pt per line plus 12pt padding top and bottom, floor of 30.
func HauteurRangee(n int) float64 {
	h := float64(n)*hauteurLigne + 24
	if h < 30 {
		return 30
	}
	return h
}

// Sanitize normalizes line endings and strips control characters that the
// standard fonts cannot encode. Line feeds survive: explicit breaks in a
// description are meaningful.
func Sanitize(texte string) string {
	texte = strings.ReplaceAll(texte, "\r\n", "\n")
	texte = strings.ReplaceAll(texte, "\r", "\n")
	var b strings.Builder
	b.Grow(len(texte))
	for _, r := range texte {
		if r == '\n' || r >= 0x20 {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Montant renders an fr-CA amount: space-grouped thousands, comma decimals,
// trailing dollar sign (1234.5 → "1 234,50 $").
func Montant(d decimal.Decimal) string {
	s := d.StringFixed(2)
	negatif := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	entier, fraction, _ := strings.Cut(s, ".")

	var groupes []string
	for len(entier) > 3 {
		groupes = append([]string{entier[len(entier)-3:]}, groupes...)
		entier = entier[:len(entier)-3]
	}
	groupes = append([]string{entier}, groupes...)

	out := strings.Join(groupes, " ") + "," + fraction + " $"
	if negatif {
		return "-" + out
	}
	return out
}

func valeur(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
