package pdf

// Contract clauses appended after the line table. The set depends on the
// company relation of the originating request: suppliers get the purchasing
// conditions, sous-traitants the subcontract conditions.

var clausesFournisseur = []string{
	"1. ACCEPTATION. La livraison des marchandises ou le début de l'exécution des services constitue l'acceptation du présent bon de commande et de toutes ses conditions.",
	"2. PRIX. Les prix indiqués sont fermes et ne peuvent être modifiés sans l'accord écrit préalable de l'acheteur. Aucuns frais supplémentaires (transport, manutention, emballage) ne seront acceptés s'ils ne figurent pas au présent bon de commande.",
	"3. FACTURATION. Chaque facture doit porter le numéro du bon de commande. Toute facture sans ce numéro sera retournée sans paiement.",
	"4. LIVRAISON. Les délais de livraison sont de rigueur. Tout retard doit être signalé immédiatement à l'acheteur, qui se réserve le droit d'annuler la commande en cas de retard injustifié.",
	"5. CONFORMITÉ. Les marchandises livrées doivent être conformes aux spécifications du bon de commande. Les marchandises non conformes seront retournées aux frais du fournisseur.",
	"6. GARANTIE. Le fournisseur garantit les marchandises contre tout défaut de matériau et de fabrication pour une période minimale de douze (12) mois suivant la livraison.",
	"7. ANNULATION. L'acheteur peut annuler le présent bon de commande en tout temps avant la livraison, sans pénalité, pour les quantités non livrées.",
}

var clausesSousTraitant = []string{
	"1. PORTÉE DES TRAVAUX. Le sous-traitant exécute les travaux décrits au présent bon de commande conformément aux plans, devis et directives du donneur d'ouvrage.",
	"2. LOIS ET PERMIS. Le sous-traitant se conforme à toutes les lois, règlements et normes applicables, incluant le Code de sécurité pour les travaux de construction, et détient toutes les licences requises par la Régie du bâtiment du Québec.",
	"3. ASSURANCES. Le sous-traitant maintient en vigueur une assurance responsabilité civile d'au moins deux millions de dollars (2 000 000 $) par événement et en fournit la preuve sur demande.",
	"4. CNESST. Le sous-traitant fournit une attestation de conformité CNESST valide avant le début des travaux et à la facturation finale.",
	"5. FACTURATION. Chaque facture doit porter le numéro du bon de commande et être accompagnée des quittances des fournisseurs et sous-traitants de rang inférieur, le cas échéant.",
	"6. RETENUE. Une retenue de dix pour cent (10 %) est appliquée sur chaque paiement et libérée conformément aux conditions du contrat principal.",
	"7. MAIN-D'ŒUVRE. Le sous-traitant emploie une main-d'œuvre qualifiée détenant les cartes de compétence requises et respecte les conventions collectives applicables au chantier.",
	"8. RÉSILIATION. Le donneur d'ouvrage peut résilier le présent bon de commande en cas de défaut du sous-traitant non corrigé dans les cinq (5) jours d'un avis écrit.",
}

// pagesClauses appends the clause pages matching the order's company
// relation. Unknown or missing relations default to the supplier set.
func (r *rendu) pagesClauses() {
	clauses := clausesFournisseur
	titre := "CONDITIONS D'ACHAT"
	if r.commande.DemandeAchat != nil && r.commande.DemandeAchat.RelationCompagnie == "sous-traitant" {
		clauses = clausesSousTraitant
		titre = "CONDITIONS DE SOUS-TRAITANCE"
	}

	r.doc.AddPage()
	r.doc.SetTextColor(0, 0, 0)
	r.doc.SetFont("Helvetica", "B", 12)
	r.doc.Text(50, 60, r.tr(titre))

	r.doc.SetFont("Helvetica", "", 9)
	y := 90.0
	for _, clause := range clauses {
		lignes := r.couperTexte(clause, pageLargeur-100-10)
		if y+float64(len(lignes))*hauteurLigne > pageHauteur-margeBasse {
			r.doc.AddPage()
			y = 60
			r.doc.SetFont("Helvetica", "", 9)
		}
		for _, l := range lignes {
			r.doc.Text(50, y, r.tr(l))
			y += hauteurLigne
		}
		y += 10
	}
}
