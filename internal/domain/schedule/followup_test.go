package schedule

import (
	"testing"
	"time"

	"github.com/NovaClinicas/clinic-scheduler/internal/models"
)

func lastAt(t time.Time) *models.Appointment {
	return &models.Appointment{ID: 1, PatientID: 10, Datetime: t}
}

func TestEvaluateFollowUpNoPriorVisit(t *testing.T) {
	got := EvaluateFollowUp(nil, utc(2026, 3, 10, 9, 0), 30)

	if got.IsFollowUp {
		t.Error("sem histórico não pode ser retorno")
	}
	if got.LastAppointmentDate != "Nenhum registro" {
		t.Errorf("sentinela errada: %q", got.LastAppointmentDate)
	}
}

func TestEvaluateFollowUpSameDayOrFuture(t *testing.T) {
	last := lastAt(utc(2026, 3, 10, 9, 0))

	// mesma data e última consulta depois do alvo: data crua, sem qualificador
	for _, target := range []time.Time{
		utc(2026, 3, 10, 15, 0),
		utc(2026, 3, 8, 9, 0),
	} {
		got := EvaluateFollowUp(last, target, 30)
		if got.IsFollowUp {
			t.Errorf("target %v: não deveria ser retorno", target)
		}
		if got.LastAppointmentDate != "10/03/2026" {
			t.Errorf("target %v: esperava data formatada, veio %q", target, got.LastAppointmentDate)
		}
	}
}

func TestEvaluateFollowUpLimitNotConfigured(t *testing.T) {
	last := lastAt(utc(2026, 3, 1, 9, 0))

	got := EvaluateFollowUp(last, utc(2026, 3, 10, 9, 0), 0)
	if got.IsFollowUp {
		t.Error("sem limite configurado nunca é retorno")
	}
	if got.LastAppointmentDate != "01/03/2026" {
		t.Errorf("esperava data formatada, veio %q", got.LastAppointmentDate)
	}
}

func TestEvaluateFollowUpWithinWindow(t *testing.T) {
	last := lastAt(utc(2026, 3, 1, 9, 0))

	got := EvaluateFollowUp(last, utc(2026, 3, 11, 9, 0), 30)
	if !got.IsFollowUp {
		t.Fatal("10 dias com limite 30 deveria ser retorno")
	}
	if got.LastAppointmentDate != "10 dias atrás" {
		t.Errorf("qualificador errado: %q", got.LastAppointmentDate)
	}
}

func TestEvaluateFollowUpYesterday(t *testing.T) {
	last := lastAt(utc(2026, 3, 9, 9, 0))

	got := EvaluateFollowUp(last, utc(2026, 3, 10, 9, 0), 30)
	if !got.IsFollowUp {
		t.Fatal("1 dia com limite 30 deveria ser retorno")
	}
	if got.LastAppointmentDate != "ontem" {
		t.Errorf("esperava \"ontem\", veio %q", got.LastAppointmentDate)
	}
}

func TestEvaluateFollowUpLimitBoundaryIsExclusive(t *testing.T) {
	last := lastAt(utc(2026, 3, 1, 9, 0))

	// diff == limite já está fora da janela
	got := EvaluateFollowUp(last, utc(2026, 3, 6, 9, 0), 5)
	if got.IsFollowUp {
		t.Fatal("diff igual ao limite não é retorno")
	}
	if got.LastAppointmentDate != "mais de 5 dias atrás" {
		t.Errorf("qualificador errado: %q", got.LastAppointmentDate)
	}

	// um dia antes da borda ainda é retorno
	got = EvaluateFollowUp(last, utc(2026, 3, 5, 9, 0), 5)
	if !got.IsFollowUp {
		t.Fatal("diff abaixo do limite deveria ser retorno")
	}
}

func TestEvaluateFollowUpBeyondWindow(t *testing.T) {
	last := lastAt(utc(2026, 1, 1, 9, 0))

	got := EvaluateFollowUp(last, utc(2026, 3, 10, 9, 0), 30)
	if got.IsFollowUp {
		t.Fatal("fora da janela não é retorno")
	}
	// o texto usa o limite, não a distância real
	if got.LastAppointmentDate != "mais de 30 dias atrás" {
		t.Errorf("qualificador errado: %q", got.LastAppointmentDate)
	}
}

func TestEvaluateFollowUpPartialDayTruncates(t *testing.T) {
	// 23h de diferença: menos de um dia inteiro, conta como diff 0
	last := lastAt(utc(2026, 3, 9, 10, 0))

	got := EvaluateFollowUp(last, utc(2026, 3, 10, 9, 0), 30)
	if got.IsFollowUp {
		t.Fatal("menos de 24h não fecha um dia inteiro")
	}
	if got.LastAppointmentDate != "09/03/2026" {
		t.Errorf("esperava data formatada, veio %q", got.LastAppointmentDate)
	}
}

func TestAppointmentPrice(t *testing.T) {
	cases := []struct {
		name              string
		isFollowUp        bool
		insuranceSelected bool
		privatePrice      float64
		wantKind          PriceKind
		wantLabel         string
	}{
		{"retorno", true, false, 150, PriceFree, "Retorno (sem custo)"},
		{"retorno com convênio selecionado", true, true, 150, PriceFree, "Retorno (sem custo)"},
		{"convênio", false, true, 150, PriceInsurance, "Coberto pelo convênio"},
		{"particular com valor", false, false, 150, PriceFixed, "R$ 150,00"},
		{"particular sem valor", false, false, 0, PriceUnset, "Valor não configurado"},
	}

	for _, tc := range cases {
		got := AppointmentPrice(tc.isFollowUp, tc.insuranceSelected, tc.privatePrice)
		if got.Kind != tc.wantKind {
			t.Errorf("%s: kind got %q, want %q", tc.name, got.Kind, tc.wantKind)
		}
		if got.Label != tc.wantLabel {
			t.Errorf("%s: label got %q, want %q", tc.name, got.Label, tc.wantLabel)
		}
	}

	// "não configurado" é um estado distinto de preço zero exibido
	unset := AppointmentPrice(false, false, 0)
	if unset.Label == FormatBRL(0) {
		t.Error("valor não configurado não pode exibir R$ 0,00")
	}
}

func TestFormatBRL(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{150, "R$ 150,00"},
		{89.9, "R$ 89,90"},
		{0.5, "R$ 0,50"},
	}

	for _, tc := range cases {
		if got := FormatBRL(tc.in); got != tc.want {
			t.Errorf("FormatBRL(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
