// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2025-2026 claude-code-hub contributors
// https://github.com/Hashmapw/claude-code-hub

package i18n

// Message catalogs for the server-rendered pages. Keys absent from a
// locale fall back to English.
var catalogs = map[string]map[string]string{
	"en": {
		"login.title":          "Sign in",
		"login.username":       "Username",
		"login.password":       "Password",
		"login.submit":         "Sign in",
		"login.error.invalid":  "Invalid username or password",
		"login.error.denied":   "This key cannot access the web console",
		"nav.dashboard":        "Dashboard",
		"nav.providers":        "Providers",
		"nav.quotas":           "Quotas",
		"nav.usage":            "Usage logs",
		"nav.logout":           "Sign out",
		"dashboard.title":      "Dashboard",
		"providers.title":      "API Providers",
		"quotas.title":         "Usage Quotas",
		"usage.title":          "Usage Logs",
		"usage.live":           "Live",
		"redirect.loading":     "Redirecting…",
	},
	"zh-CN": {
		"login.title":          "登录",
		"login.username":       "用户名",
		"login.password":       "密码",
		"login.submit":         "登录",
		"login.error.invalid":  "用户名或密码错误",
		"login.error.denied":   "该密钥无法访问控制台",
		"nav.dashboard":        "仪表盘",
		"nav.providers":        "服务商",
		"nav.quotas":           "配额",
		"nav.usage":            "使用日志",
		"nav.logout":           "退出登录",
		"dashboard.title":      "仪表盘",
		"providers.title":      "API 服务商",
		"quotas.title":         "使用配额",
		"usage.title":          "使用日志",
		"usage.live":           "实时",
		"redirect.loading":     "正在跳转…",
	},
	"zh-TW": {
		"login.title":          "登入",
		"login.username":       "使用者名稱",
		"login.password":       "密碼",
		"login.submit":         "登入",
		"login.error.invalid":  "使用者名稱或密碼錯誤",
		"login.error.denied":   "該金鑰無法存取主控台",
		"nav.dashboard":        "儀表板",
		"nav.providers":        "服務商",
		"nav.quotas":           "配額",
		"nav.usage":            "使用紀錄",
		"nav.logout":           "登出",
		"dashboard.title":      "儀表板",
		"providers.title":      "API 服務商",
		"quotas.title":         "使用配額",
		"usage.title":          "使用紀錄",
		"usage.live":           "即時",
		"redirect.loading":     "正在跳轉…",
	},
	"ja": {
		"login.title":          "ログイン",
		"login.username":       "ユーザー名",
		"login.password":       "パスワード",
		"login.submit":         "ログイン",
		"login.error.invalid":  "ユーザー名またはパスワードが正しくありません",
		"login.error.denied":   "このキーではコンソールにアクセスできません",
		"nav.dashboard":        "ダッシュボード",
		"nav.providers":        "プロバイダー",
		"nav.quotas":           "クォータ",
		"nav.usage":            "利用ログ",
		"nav.logout":           "ログアウト",
		"dashboard.title":      "ダッシュボード",
		"providers.title":      "API プロバイダー",
		"quotas.title":         "利用クォータ",
		"usage.title":          "利用ログ",
		"usage.live":           "ライブ",
		"redirect.loading":     "リダイレクト中…",
	},
	"ru": {
		"login.title":          "Вход",
		"login.username":       "Имя пользователя",
		"login.password":       "Пароль",
		"login.submit":         "Войти",
		"login.error.invalid":  "Неверное имя пользователя или пароль",
		"login.error.denied":   "Этот ключ не даёт доступа к консоли",
		"nav.dashboard":        "Панель",
		"nav.providers":        "Провайдеры",
		"nav.quotas":           "Квоты",
		"nav.usage":            "Журнал запросов",
		"nav.logout":           "Выйти",
		"dashboard.title":      "Панель",
		"providers.title":      "API-провайдеры",
		"quotas.title":         "Квоты использования",
		"usage.title":          "Журнал запросов",
		"usage.live":           "В реальном времени",
		"redirect.loading":     "Перенаправление…",
	},
}
