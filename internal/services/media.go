package services

import (
	"context"
	"strings"

	"github.com/krishyadav90/ProJobHub-IND/utils"
)

// storeImage uploads a data URL image and returns its public URL. Plain URLs,
// empty values and calls without an uploader are returned unchanged.
func storeImage(ctx context.Context, up utils.Uploader, value, folder string) (string, error) {
	if up == nil || !strings.HasPrefix(value, "data:") {
		return value, nil
	}
	data, ext, err := utils.DecodeDataURL(value)
	if err != nil {
		return "", err
	}
	return up.Upload(ctx, data, utils.NewCanonicalID()+ext, folder)
}
