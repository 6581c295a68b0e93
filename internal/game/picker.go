package game

import (
	"errors"

	"github.com/ncruces/zenity"
)

// Picker asks the user for a mask image path. It returns "" when the user
// cancels.
type Picker func() (string, error)

// DialogPicker opens the native file dialog.
func DialogPicker() (string, error) {
	filename, err := zenity.SelectFile(
		zenity.Title("Open Mask Image"),
		zenity.FileFilters{{
			Name:     "Images",
			Patterns: []string{"*.png", "*.jpg", "*.jpeg", "*.gif", "*.bmp", "*.webp"},
		}},
	)
	if err != nil {
		if errors.Is(err, zenity.ErrCanceled) {
			return "", nil
		}
		return "", err
	}
	return filename, nil
}
