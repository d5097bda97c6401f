package commission

import (
	"github.com/LucasTruppel/comissao-project/internal/model"
)

// filterResults prunes the registry down to sellers with attributed sales,
// in registry order, and drops zero-activity contadores from each retained
// seller. Partners that exist in the registry but matched no rows never
// appear in output.
func filterResults(reg *Registry) []*model.Seller {
	var sellers []*model.Seller
	for _, doc := range reg.sellerOrder {
		seller := reg.Sellers[doc]
		if seller.TotalVendas <= 0 {
			continue
		}
		var active []*model.Contador
		for _, contador := range seller.Contadores {
			if contador.TotalVendas > 0 {
				active = append(active, contador)
			}
		}
		seller.Contadores = active
		sellers = append(sellers, seller)
	}
	return sellers
}

// buildRenewalNode rebuilds the seller/contador tree scoped to renewal-only
// sales, starting from the already-pruned seller list. The node's volume
// sums face sale values while its commission sums the renewal-specific
// amounts; the regular commission on those lines belongs to the sellers and
// contadores, not to the renewal partner.
func buildRenewalNode(sellers []*model.Seller, renewal *renewalInfo) *model.RenewalPartner {
	var renewalSellers []*model.Seller
	totalVendas := 0.0
	totalComissao := 0.0

	for _, seller := range sellers {
		vendas := renewalOnly(seller.Vendas)

		var contadores []*model.Contador
		for _, contador := range seller.Contadores {
			contadorVendas := renewalOnly(contador.Vendas)
			if len(contadorVendas) == 0 {
				continue
			}
			contadores = append(contadores, &model.Contador{Partner: partnerSlice(contador.Partner, contadorVendas)})
		}

		if len(vendas) == 0 && len(contadores) == 0 {
			continue
		}

		renewalSeller := &model.Seller{
			Partner:    partnerSlice(seller.Partner, vendas),
			Contadores: contadores,
		}
		renewalSellers = append(renewalSellers, renewalSeller)

		totalVendas += renewalSeller.TotalVendas
		totalComissao += renewalSeller.TotalComissaoRenovacao
		for _, contador := range contadores {
			totalVendas += contador.TotalVendas
			totalComissao += contador.TotalComissaoRenovacao
		}
	}

	if len(renewalSellers) == 0 {
		return nil
	}

	return &model.RenewalPartner{
		Nome:          renewal.Nome,
		CnpjCpf:       renewal.CnpjCpf,
		FaixaComissao: renewal.FaixaComissao,
		TotalVendas:   totalVendas,
		TotalComissao: totalComissao,
		Sellers:       renewalSellers,
	}
}

func renewalOnly(vendas []model.Sale) []model.Sale {
	var out []model.Sale
	for _, v := range vendas {
		if v.IsRenovacao {
			out = append(out, v)
		}
	}
	return out
}

// partnerSlice copies a partner's identity with totals re-summed over the
// given sale subset.
func partnerSlice(p model.Partner, vendas []model.Sale) model.Partner {
	out := model.Partner{
		Nome:          p.Nome,
		CnpjCpf:       p.CnpjCpf,
		FaixaComissao: p.FaixaComissao,
	}
	for _, v := range vendas {
		out.Vendas = append(out.Vendas, v)
		out.TotalVendas += v.ValorVenda
		out.TotalComissao += v.Comissao
		out.TotalComissaoRenovacao += v.ComissaoRenovacao
	}
	return out
}
