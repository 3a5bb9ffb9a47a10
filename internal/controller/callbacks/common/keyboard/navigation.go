package keyboard

import "github.com/go-telegram/bot/models"

// BackButton returns a "Back" button.
func BackButton(callbackData string) models.InlineKeyboardButton {
	return Button("⬅️ Back", callbackData)
}

// YesNoRow returns a single row with Yes and No.
func YesNoRow(yesCallback, noCallback string) []models.InlineKeyboardButton {
	return []models.InlineKeyboardButton{
		Button("✅ Yes", yesCallback),
		Button("❌ No", noCallback),
	}
}

// Noop is a button that does nothing, used for labels inside keyboards.
func Noop(text string) models.InlineKeyboardButton {
	return Button(text, "noop")
}
