package notifier

import (
	"fmt"
	"strings"
	"time"

	"DrawSentinel/internal/calculator"
	"DrawSentinel/internal/format"
	"DrawSentinel/internal/model"
)

// FormatRow formats a projection row as a Telegram message.
func FormatRow(row model.Row) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("🎱 <b>Draw %s</b>\n\n", format.Datetime(row.Draw)))
	b.WriteString(fmt.Sprintf("Price at draw: %s\n", format.Currency(row.HistoricalPrice.Amount)))
	b.WriteString(fmt.Sprintf("Price now: %s\n", format.Currency(row.ReferencePrice.Amount)))
	b.WriteString(fmt.Sprintf("Stake %s is worth <b>%s</b> (%s)\n",
		format.Currency(row.Stake),
		format.Currency(row.Projected),
		format.Percent(calculator.ReturnPercent(row.Projected, row.Stake))))
	return b.String()
}

// FormatTable lists every row as "date | value".
func FormatTable(rows []model.Row) string {
	if len(rows) == 0 {
		return "No records found"
	}
	var b strings.Builder
	b.WriteString("📋 <b>Projections</b>\n\n")
	for _, r := range rows {
		b.WriteString(fmt.Sprintf("%s | %s\n", format.Datetime(r.Draw), format.Currency(r.Projected)))
	}
	return b.String()
}

// FormatPrice formats the reference price, or its absence.
func FormatPrice(p *model.PricePoint) string {
	if p == nil {
		return "Current bitcoin price is unavailable"
	}
	return fmt.Sprintf("💶 Bitcoin: <b>%s</b>\nUpdated: %s (%s)",
		format.Currency(p.Amount), format.Datetime(p.At), p.Source)
}

// FormatNextDraw formats the draw resolved for input.
func FormatNextDraw(input, draw time.Time) string {
	return fmt.Sprintf("Next draw after %s: <b>%s</b>", format.Datetime(input), format.Datetime(draw))
}

// FormatDrawAnnouncement is pushed when a draw takes place.
func FormatDrawAnnouncement(drawAt, next time.Time, p *model.PricePoint) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("🎱 <b>Draw time</b> | %s\n\n", format.Datetime(drawAt)))
	b.WriteString(FormatPrice(p))
	b.WriteString(fmt.Sprintf("\n\nNext draw: %s", format.Datetime(next)))
	return b.String()
}

// FormatHelp lists the bot commands.
func FormatHelp() string {
	return "Available commands:\n" +
		"• /draw &lt;date&gt; - project the stake for the next draw after date\n" +
		"• /next &lt;date&gt; - show the next draw after date\n" +
		"• /rows - list projections\n" +
		"• /price - current bitcoin price\n\n" +
		"Dates: dd-mm-yyyy HH:mm or yyyy-mm-ddTHH:mm"
}
