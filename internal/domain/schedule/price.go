package schedule

import (
	"strconv"
	"strings"
)

// ===============================
// Preço da consulta
// ===============================

type PriceKind string

const (
	// Retorno dentro da janela: sem custo
	PriceFree PriceKind = "free"
	// Faturado no convênio: nenhum valor é exibido à recepção
	PriceInsurance PriceKind = "insurance"
	// Particular com valor fixo configurado no médico
	PriceFixed PriceKind = "fixed"
	// Particular sem valor configurado: estado distinto de "R$ 0,00"
	PriceUnset PriceKind = "unset"
)

type Price struct {
	Kind   PriceKind `json:"kind"`
	Amount float64   `json:"amount"`
	Label  string    `json:"label"`
}

// AppointmentPrice aplica a regra de cobrança:
// retorno → grátis; convênio → faturado no convênio; particular → valor
// fixo do médico, ou "não configurado" quando o valor é zero/ausente.
func AppointmentPrice(isFollowUp bool, insuranceSelected bool, privatePrice float64) Price {
	if isFollowUp {
		return Price{Kind: PriceFree, Label: "Retorno (sem custo)"}
	}

	if insuranceSelected {
		return Price{Kind: PriceInsurance, Label: "Coberto pelo convênio"}
	}

	if privatePrice <= 0 {
		return Price{Kind: PriceUnset, Label: "Valor não configurado"}
	}

	return Price{
		Kind:   PriceFixed,
		Amount: privatePrice,
		Label:  FormatBRL(privatePrice),
	}
}

// FormatBRL formata um valor como moeda pt-BR ("R$ 150,00").
func FormatBRL(v float64) string {
	s := strconv.FormatFloat(v, 'f', 2, 64)
	return "R$ " + strings.ReplaceAll(s, ".", ",")
}
