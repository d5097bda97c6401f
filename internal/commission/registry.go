package commission

import (
	"strings"

	"github.com/LucasTruppel/comissao-project/internal/model"
	"github.com/LucasTruppel/comissao-project/internal/parser"
)

// Registry holds the classified partner universe for one request, keyed by
// normalized document. Seller insertion order is preserved so output trees
// are stable across runs.
type Registry struct {
	Sellers          map[string]*model.Seller
	Contadores       map[string]*model.Contador
	ContadorToSeller map[string]string

	sellerOrder []string
}

type gestorLink struct {
	contadorDoc string
	gestorName  string
}

// truncateName keeps the left side of the first " - " delimiter. Registry
// display names carry branch suffixes after it.
func truncateName(name string) string {
	left, _, _ := strings.Cut(name, " - ")
	return strings.TrimSpace(left)
}

// BuildRegistry classifies registry rows into Sellers and Contadores and
// links each Contador to its sponsoring Seller via the Gestor 01 field.
//
// Classification drops rows without a document silently. A Contador whose
// band text yields no rate is dropped as well, while a Seller with an
// unresolvable band is kept; sponsor links resolve by exact post-truncation
// name match, first match wins, and unmatched names leave the Contador
// unlinked.
func BuildRegistry(table *parser.Table, cols registryColumns) *Registry {
	reg := &Registry{
		Sellers:          make(map[string]*model.Seller),
		Contadores:       make(map[string]*model.Contador),
		ContadorToSeller: make(map[string]string),
	}

	var links []gestorLink
	sellerNameToDoc := make(map[string]string)

	for _, row := range table.Rows {
		tipo := row.Get(cols.TipoParceiro)
		faixa := row.Get(cols.FaixaComissao)
		docRaw := row.Get(cols.CnpjCpf)
		nome := truncateName(row.Get(cols.NomeRazao))
		gestor := row.Get(cols.Gestor)

		doc := parser.NormalizeDocument(docRaw)
		if doc == "" {
			continue
		}

		_, hasRate := ParseRate(faixa)

		if strings.EqualFold(tipo, "contador") {
			if !hasRate {
				continue
			}
			reg.Contadores[doc] = &model.Contador{Partner: model.Partner{
				Nome:          nome,
				CnpjCpf:       docRaw,
				FaixaComissao: faixa,
			}}
			if gestor != "" {
				links = append(links, gestorLink{contadorDoc: doc, gestorName: truncateName(gestor)})
			}
			continue
		}

		// Anything that is not a contador is a seller; a seller without a
		// resolvable rate stays visible with an effective rate of zero.
		if _, exists := reg.Sellers[doc]; !exists {
			reg.sellerOrder = append(reg.sellerOrder, doc)
		}
		reg.Sellers[doc] = &model.Seller{Partner: model.Partner{
			Nome:          nome,
			CnpjCpf:       docRaw,
			FaixaComissao: faixa,
		}}
		if _, exists := sellerNameToDoc[nome]; !exists {
			sellerNameToDoc[nome] = doc
		}
	}

	for _, link := range links {
		sellerDoc, ok := sellerNameToDoc[link.gestorName]
		if !ok {
			continue
		}
		reg.ContadorToSeller[link.contadorDoc] = sellerDoc
		seller := reg.Sellers[sellerDoc]
		seller.Contadores = append(seller.Contadores, reg.Contadores[link.contadorDoc])
	}

	return reg
}

// renewalInfo is the designated renewal partner as found in the registry
// table, if present.
type renewalInfo struct {
	Nome          string
	CnpjCpf       string
	FaixaComissao string
	Rate          float64
	HasRate       bool
}

// findRenewalPartner scans registry rows for the configured renewal partner
// document. The partner is a configuration constant, not discovered
// dynamically.
func findRenewalPartner(table *parser.Table, cols registryColumns, document string) *renewalInfo {
	for _, row := range table.Rows {
		docRaw := row.Get(cols.CnpjCpf)
		if parser.NormalizeDocument(docRaw) != document {
			continue
		}
		faixa := row.Get(cols.FaixaComissao)
		info := &renewalInfo{
			Nome:          truncateName(row.Get(cols.NomeRazao)),
			CnpjCpf:       docRaw,
			FaixaComissao: faixa,
		}
		info.Rate, info.HasRate = ParseRate(faixa)
		return info
	}
	return nil
}
