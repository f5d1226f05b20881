package schedule

import "time"

// WeekTemplate mapeia cada dia da semana (0=domingo..6=sábado) para a lista
// ordenada de horários "HH:MM" que o médico oferta. A ordem é a configurada
// pelo médico e não é necessariamente cronológica.
type WeekTemplate [7][]string

// DayOff é um intervalo fechado [Start, End] em que o médico não atende,
// independente do template.
type DayOff struct {
	ID    uint      `json:"id"`
	Start time.Time `json:"datetime_start"`
	End   time.Time `json:"datetime_end"`
}

// TemplateSlot é um horário do template já resolvido para uma data.
type TemplateSlot struct {
	Time string `json:"time"`
	Off  bool   `json:"off"`
}

const (
	dateLayout = "2006-01-02"
	hourLayout = "15:04"
)

// ResolveForDate resolve o template semanal para uma data concreta, marcando
// como folga todo horário coberto por algum intervalo de DayOff. Data
// inválida e dia sem expediente produzem o mesmo resultado: lista vazia.
//
// Os instantes são montados e comparados no relógio de parede UTC, que é como
// o backend grava os horários. Isso mantém o casamento estável entre template
// (hora local "ingênua") e folgas (instantes absolutos), ao custo de
// fragilidade em transições de horário de verão.
func ResolveForDate(tpl WeekTemplate, daysOff []DayOff, date string) []TemplateSlot {
	day, err := time.Parse(dateLayout, date)
	if err != nil {
		return []TemplateSlot{}
	}

	times := tpl[int(day.Weekday())]
	if len(times) == 0 {
		return []TemplateSlot{}
	}

	slots := make([]TemplateSlot, 0, len(times))
	for _, hm := range times {
		t, err := time.Parse(hourLayout, hm)
		if err != nil {
			// entrada malformada no template: ignorada
			continue
		}

		instant := time.Date(
			day.Year(), day.Month(), day.Day(),
			t.Hour(), t.Minute(), 0, 0,
			time.UTC,
		)

		slots = append(slots, TemplateSlot{
			Time: instant.Format(hourLayout),
			Off:  isOff(instant, daysOff),
		})
	}

	return slots
}

// intervalo fechado: basta um DayOff cobrir o instante
func isOff(instant time.Time, daysOff []DayOff) bool {
	for _, d := range daysOff {
		start := d.Start.UTC()
		end := d.End.UTC()

		if !instant.Before(start) && !instant.After(end) {
			return true
		}
	}
	return false
}
