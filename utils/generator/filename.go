package generator

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// ImageFilename 生成上传文件的存储标识符：上传时间戳 + 清洗后的原始文件名
func ImageFilename(originalName string, uploadTime time.Time) string {
	name := sanitizeFilename(originalName)
	return fmt.Sprintf("%d-%s", uploadTime.UnixMilli(), name)
}

// sanitizeFilename 清洗原始文件名，只保留安全字符
func sanitizeFilename(name string) string {
	base := filepath.Base(name)

	var sb strings.Builder
	for _, r := range base {
		switch {
		case r >= 'a' && r <= 'z',
			r >= 'A' && r <= 'Z',
			r >= '0' && r <= '9',
			r == '-' || r == '_' || r == '.':
			sb.WriteRune(r)
		default:
			sb.WriteRune('_')
		}
	}

	cleaned := strings.Trim(sb.String(), ".")
	if cleaned == "" {
		return "image"
	}
	return cleaned
}
