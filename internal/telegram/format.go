package telegram

import (
	"fmt"
	"strconv"
	"strings"

	"food-storefront/internal/cart"
	"food-storefront/internal/catalog"
	"food-storefront/internal/customize"
	"food-storefront/internal/metrics"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Callback actions. Telegram limits callback data to 64 bytes, so buttons
// carry ids and schema indexes rather than names.
const (
	cbMenu     = "menu"
	cbCategory = "cat"
	cbItem     = "item"
	cbOption   = "opt"
	cbDraftQty = "dq"
	cbAdd      = "add"
	cbCancel   = "cancel"
	cbCart     = "cart"
	cbCartQty  = "cq"
	cbRemove   = "rm"
	cbClear    = "clear"
	cbCheckout = "checkout"
)

func callbackData(action string, args ...string) string {
	return strings.Join(append([]string{action}, args...), "|")
}

func parseCallback(data string) (string, []string) {
	parts := strings.Split(data, "|")
	return parts[0], parts[1:]
}

func md(s string) string {
	return tgbotapi.EscapeText(tgbotapi.ModeMarkdown, s)
}

func pluralItems(n int) string {
	if n == 1 {
		return "1 item"
	}
	return fmt.Sprintf("%d items", n)
}

// formatCartBar renders the summary shown under menu and search screens.
// An empty cart has no bar.
func formatCartBar(snap cart.Snapshot, label string) string {
	if snap.IsEmpty() {
		return ""
	}
	return fmt.Sprintf("🛒 %s • %s", pluralItems(snap.Units()), catalog.FormatPrice(label, snap.Total))
}

func withCartBar(text string, snap cart.Snapshot, label string) string {
	if bar := formatCartBar(snap, label); bar != "" {
		return text + "\n\n" + bar
	}
	return text
}

func formatSelections(sel cart.Selections, item catalog.MenuItem) string {
	var parts []string
	for _, c := range item.Customizable {
		if name, ok := sel[c.Title]; ok {
			parts = append(parts, name)
		}
	}
	return strings.Join(parts, ", ")
}

func formatCategories(categories []string) string {
	if len(categories) == 0 {
		return "🍽 *Menu*\n\n_The menu is empty._"
	}
	return "🍽 *Menu*\n\nPick a category:"
}

func categoriesKeyboard(categories []string, snap cart.Snapshot) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for i, c := range categories {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(c, callbackData(cbCategory, strconv.Itoa(i))),
		))
	}
	if !snap.IsEmpty() {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🛒 View cart", cbCart),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// formatItemList renders a category or a search result. quantity reports how
// many units of an item are already in the cart.
func formatItemList(title string, items catalog.Menu, quantity func(int64) int, label string) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("*%s*\n\n", md(title)))
	if len(items) == 0 {
		sb.WriteString("_No items found._")
		return sb.String()
	}
	for _, item := range items {
		price := catalog.FormatPrice(label, item.BasePrice)
		if item.IsCustomizable() {
			price = "customizable"
		}
		sb.WriteString(fmt.Sprintf("• *%s*: %s", md(item.Name), price))
		if n := quantity(item.ID); n > 0 {
			sb.WriteString(fmt.Sprintf(" (x%d in cart)", n))
		}
		sb.WriteString("\n")
		if item.Description != "" {
			sb.WriteString(fmt.Sprintf("_%s_\n", md(item.Description)))
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}

func itemListKeyboard(items catalog.Menu) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, item := range items {
		text := "➕ " + item.Name
		if item.IsCustomizable() {
			text = "⚙️ " + item.Name
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(text, callbackData(cbItem, strconv.FormatInt(item.ID, 10))),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("⬅️ Menu", cbMenu),
		tgbotapi.NewInlineKeyboardButtonData("🛒 Cart", cbCart),
	))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// formatDraft renders the customization screen for an item.
func formatDraft(d *customize.Draft, label string) string {
	item := d.Item()
	sel := d.Selections()

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("*%s*\n", md(item.Name)))
	if item.Description != "" {
		sb.WriteString(fmt.Sprintf("_%s_\n", md(item.Description)))
	}
	sb.WriteString("\n")

	for _, c := range item.Customizable {
		marker := ""
		if c.Required {
			marker = " (required)"
		}
		choice := "none"
		if name, ok := sel[c.Title]; ok {
			choice = name
		}
		sb.WriteString(fmt.Sprintf("*%s*%s: %s\n", md(c.Title), marker, md(choice)))
	}

	sb.WriteString(fmt.Sprintf("\nQuantity: %d\n", d.Quantity()))
	sb.WriteString(fmt.Sprintf("Price: %s", catalog.FormatPrice(label, d.Price())))

	if missing := d.Missing(); len(missing) > 0 {
		sb.WriteString(fmt.Sprintf("\n\n⚠️ Please choose: %s", md(strings.Join(missing, ", "))))
	}
	return sb.String()
}

func draftKeyboard(d *customize.Draft, label string) tgbotapi.InlineKeyboardMarkup {
	item := d.Item()
	sel := d.Selections()

	var rows [][]tgbotapi.InlineKeyboardButton
	for ci, c := range item.Customizable {
		var row []tgbotapi.InlineKeyboardButton
		for oi, o := range c.Options {
			text := fmt.Sprintf("%s (%s)", o.Name, catalog.FormatPrice(label, o.Price))
			if sel[c.Title] == o.Name {
				text = "✅ " + text
			}
			row = append(row, tgbotapi.NewInlineKeyboardButtonData(text,
				callbackData(cbOption, strconv.Itoa(ci), strconv.Itoa(oi))))
		}
		rows = append(rows, row)
	}

	rows = append(rows,
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("➖", callbackData(cbDraftQty, "-")),
			tgbotapi.NewInlineKeyboardButtonData(strconv.Itoa(d.Quantity()), callbackData(cbDraftQty, "0")),
			tgbotapi.NewInlineKeyboardButtonData("➕", callbackData(cbDraftQty, "+")),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🛒 Add • "+catalog.FormatPrice(label, d.Price()), cbAdd),
			tgbotapi.NewInlineKeyboardButtonData("✖️ Cancel", cbCancel),
		),
	)
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// formatCart renders every cart line with its selections and totals.
func formatCart(snap cart.Snapshot, label string) string {
	if snap.IsEmpty() {
		return "🛒 *Your cart is empty*"
	}

	var sb strings.Builder
	sb.WriteString("🛒 *Your Cart*\n\n")
	for _, l := range snap.Lines {
		sb.WriteString(fmt.Sprintf("• *%s* x%d: %s\n", md(l.Item.Name), l.Quantity, catalog.FormatPrice(label, l.LineTotal)))
		if s := formatSelections(l.Selections, l.Item); s != "" {
			sb.WriteString(fmt.Sprintf("  _%s_\n", md(s)))
		}
	}
	sb.WriteString(fmt.Sprintf("\n*Total:* %s", catalog.FormatPrice(label, snap.Total)))
	return sb.String()
}

// cartKeyboard has one control row per menu item. Quantity changes apply to
// every line of that item.
func cartKeyboard(snap cart.Snapshot) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	seen := make(map[int64]bool)
	for _, l := range snap.Lines {
		if seen[l.ItemID] {
			continue
		}
		seen[l.ItemID] = true
		id := strconv.FormatInt(l.ItemID, 10)
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("➖ "+l.Item.Name, callbackData(cbCartQty, id, strconv.Itoa(l.Quantity-1))),
			tgbotapi.NewInlineKeyboardButtonData("➕", callbackData(cbCartQty, id, strconv.Itoa(l.Quantity+1))),
			tgbotapi.NewInlineKeyboardButtonData("🗑", callbackData(cbRemove, id)),
		))
	}

	if !snap.IsEmpty() {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Checkout", cbCheckout),
			tgbotapi.NewInlineKeyboardButtonData("🧹 Clear", cbClear),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("⬅️ Menu", cbMenu),
	))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func formatThankYou(h cart.Handoff, label string) string {
	return fmt.Sprintf("🎉 *Thank you for your order!*\n\n%s for %s.\nReference: `%s`",
		pluralItems(cart.Snapshot{Lines: h.Lines}.Units()),
		catalog.FormatPrice(label, h.Total),
		h.Reference)
}

func formatMetricsReport(activity []metrics.DailyActivity, health metrics.SysHealth, openCarts int) string {
	var sb strings.Builder
	sb.WriteString("📊 *Usage & Health Report*\n\n")

	sb.WriteString("🗓 *Recent Cart Activity*\n")
	if len(activity) == 0 {
		sb.WriteString("_No data yet_\n")
	}
	for _, d := range activity {
		sb.WriteString(fmt.Sprintf("• *%s*: %d adds, %d checkouts (%d events)\n", d.Date, d.Adds, d.Checkouts, d.Events))
	}
	sb.WriteString(fmt.Sprintf("• Open carts: %d\n", openCarts))

	sb.WriteString("\n🧠 *System Health*\n")
	sb.WriteString(fmt.Sprintf("• RAM: %dMB (Alloc) / %dMB (Sys)\n", health.AllocMB, health.SysMB))
	sb.WriteString(fmt.Sprintf("• Goroutines: %d\n", health.Goroutines))
	sb.WriteString(fmt.Sprintf("• Disk Data: %s\n", health.DataDiskSize))
	return sb.String()
}
