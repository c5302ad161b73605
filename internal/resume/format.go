package resume

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.Ukrainian)

// Format renders one record as the human-readable text the bot and the CLI
// send to the user. Labels are Ukrainian, matching the sites' audience.
func Format(r *Resume) string {
	var b strings.Builder

	b.WriteString(printer.Sprintf("Ім'я: %s\n", r.FullName))
	b.WriteString(printer.Sprintf("Позиція: %s\n", r.Position))
	if r.ExperienceYears != nil {
		b.WriteString(printer.Sprintf("Досвід: %.1f років\n", *r.ExperienceYears))
	}

	if len(r.Experience) > 0 {
		b.WriteString("Опис досвіду:\n")
		for _, exp := range r.Experience {
			b.WriteString(printer.Sprintf("     Позиція: %s\n", exp.Position))
			b.WriteString(printer.Sprintf("     Назва компанії: %s\n", exp.Company))
			if exp.CompanyType != "" {
				b.WriteString(printer.Sprintf("     Тип компанії: %s\n", exp.CompanyType))
			}
			b.WriteString(printer.Sprintf("     Роки: %.1f\n\n", exp.Years))
		}
	}

	if len(r.Education) > 0 {
		b.WriteString("Опис навчання:\n")
		for _, edu := range r.Education {
			b.WriteString(printer.Sprintf("     Назва закладу: %s\n", edu.Name))
			b.WriteString(printer.Sprintf("     Тип навчання: %s\n", edu.TypeEducation))
			if edu.Location != "" {
				b.WriteString(printer.Sprintf("     Місто: %s\n", edu.Location))
			}
			b.WriteString(printer.Sprintf("     Рік закінчення: %d\n\n", edu.Year))
		}
	}

	if r.Location != "" {
		b.WriteString(printer.Sprintf("Місто: %s\n", r.Location))
	}
	if r.Salary != nil {
		b.WriteString(printer.Sprintf("Зарплата: %.2f грн\n", *r.Salary))
	}
	if len(r.Skills) > 0 {
		b.WriteString(printer.Sprintf("Навички: %s\n", strings.Join(r.Skills, ", ")))
	}

	if len(r.Languages) > 0 {
		b.WriteString("Знання мов:\n")
		for _, lang := range r.Languages {
			b.WriteString(printer.Sprintf("     Мова: %s\n", lang.Name))
			b.WriteString(printer.Sprintf("     Рівень: %s\n\n", lang.Level))
		}
	}

	b.WriteString(printer.Sprintf("URL: %s\n", r.URL))

	return b.String()
}
