package cli

import (
	"fmt"
	"os"
	"strings"
)

// Localization manages prompt and message translations
type Localization struct {
	currentLanguage string
	texts           map[string]map[string]string
}

// Text keys for localization
const (
	KeyAskName          = "ask_name"
	KeyConfirmOverwrite = "confirm_overwrite"
	KeySaveChanges      = "save_changes"
	KeyPressEnter       = "press_enter"
	KeyJobFailed        = "job_failed"
	KeyBatchComplete    = "batch_complete"
	KeyExportComplete   = "export_complete"
	KeyExportFailed     = "export_failed"
	KeyExported         = "exported"
	KeySaved            = "saved"
	KeyNotSaved         = "not_saved"
	KeyRenamed          = "renamed"
	KeyDeleted          = "deleted"
	KeyCreated          = "created"
	KeyEmptyContainer   = "empty_container"
	KeyUnsupportedFile  = "unsupported_file"
)

// Language codes
const (
	LangSystem  = "system"
	LangEnglish = "en"
	LangChinese = "zh"
)

// NewLocalization creates a new localization manager
func NewLocalization() *Localization {
	l := &Localization{
		currentLanguage: LangEnglish,
		texts:           make(map[string]map[string]string),
	}

	l.initializeTexts()
	return l
}

// SetLanguage sets the current language
func (l *Localization) SetLanguage(lang string) {
	if lang == LangSystem {
		lang = systemLanguage()
	}

	if _, exists := l.texts[lang]; exists {
		l.currentLanguage = lang
	}
}

// GetText returns localized text for the given key
func (l *Localization) GetText(key string) string {
	if texts, exists := l.texts[l.currentLanguage]; exists {
		if text, found := texts[key]; found {
			return text
		}
	}

	// Fallback to English
	if texts, exists := l.texts[LangEnglish]; exists {
		if text, found := texts[key]; found {
			return text
		}
	}

	return key
}

// Sprintf formats the localized text for key
func (l *Localization) Sprintf(key string, args ...any) string {
	return fmt.Sprintf(l.GetText(key), args...)
}

// GetCurrentLanguage returns the current language code
func (l *Localization) GetCurrentLanguage() string {
	return l.currentLanguage
}

// GetAvailableLanguages returns map of available languages with their display names
func (l *Localization) GetAvailableLanguages() map[string]string {
	return map[string]string{
		LangEnglish: "English",
		LangChinese: "中文",
	}
}

// systemLanguage maps the POSIX locale variables onto a supported language
func systemLanguage() string {
	for _, key := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		if value := os.Getenv(key); value != "" {
			if strings.HasPrefix(strings.ToLower(value), LangChinese) {
				return LangChinese
			}
			return LangEnglish
		}
	}
	return LangEnglish
}

// initializeTexts initializes all text translations
func (l *Localization) initializeTexts() {
	l.texts[LangEnglish] = map[string]string{
		KeyAskName:          "Name for %s [%s] (\"-\" to skip): ",
		KeyConfirmOverwrite: "Entry %q already exists. Overwrite? [y/N]: ",
		KeySaveChanges:      "Save changes to %s? [y]es/[n]o/[c]ancel: ",
		KeyPressEnter:       "Playing %s. Press Enter to stop...",
		KeyJobFailed:        "✗ %s: %v",
		KeyBatchComplete:    "Converted %d of %d (%d failed, %d skipped)",
		KeyExportComplete:   "Exported %d of %d to %s",
		KeyExportFailed:     "✗ %s: %v",
		KeyExported:         "✓ Exported %s to %s",
		KeySaved:            "✓ Saved %s",
		KeyNotSaved:         "Changes were not written",
		KeyRenamed:          "✓ Renamed %q to %q",
		KeyDeleted:          "✓ Deleted %d entries",
		KeyCreated:          "✓ Created %s",
		KeyEmptyContainer:   "No entries",
		KeyUnsupportedFile:  "Skipping unsupported file %s",
	}

	l.texts[LangChinese] = map[string]string{
		KeyAskName:          "%s 的名称 [%s]（输入 \"-\" 跳过）：",
		KeyConfirmOverwrite: "条目 %q 已存在，是否覆盖？[y/N]：",
		KeySaveChanges:      "是否保存对 %s 的修改？[y]是/[n]否/[c]取消：",
		KeyPressEnter:       "正在播放 %s，按回车停止...",
		KeyJobFailed:        "✗ %s：%v",
		KeyBatchComplete:    "已转换 %d/%d（失败 %d，跳过 %d）",
		KeyExportComplete:   "已导出 %d/%d 到 %s",
		KeyExportFailed:     "✗ %s：%v",
		KeyExported:         "✓ 已导出 %s 到 %s",
		KeySaved:            "✓ 已保存 %s",
		KeyNotSaved:         "修改未写入",
		KeyRenamed:          "✓ 已将 %q 重命名为 %q",
		KeyDeleted:          "✓ 已删除 %d 个条目",
		KeyCreated:          "✓ 已创建 %s",
		KeyEmptyContainer:   "没有条目",
		KeyUnsupportedFile:  "跳过不支持的文件 %s",
	}
}
