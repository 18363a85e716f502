package utils

import (
	"fmt"
	"net/url"
	"path"
	"strings"
)

// BuildImageURL Base URL for images
func BuildImageURL(baseURL, identifier string) string {
	return fmt.Sprintf("%s/images/%s", strings.TrimRight(baseURL, "/"), identifier)
}

// ImageIdentifierFromURL 从客户端回传的图片 URL/路径中提取存储标识符
// 支持绝对 URL（http://host/images/xxx）和相对路径（images/xxx 或 xxx）
func ImageIdentifierFromURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}

	if u, err := url.Parse(raw); err == nil && u.Path != "" {
		raw = u.Path
	}

	return path.Base(raw)
}
