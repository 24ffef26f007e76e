package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	htmlrenderer "github.com/yuin/goldmark/renderer/html"
)

//go:embed templates/*.html
var templateFS embed.FS

// goldmark 默认不输出原始 HTML，渲染结果可以直接作为 template.HTML 使用。
var markdownEngine = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,
		extension.Typographer,
	),
	goldmark.WithRendererOptions(
		htmlrenderer.WithHardWraps(),
	),
)

// Templates 解析内嵌的页面模板，模板名为文件名（如 home.html）。
func Templates() (*template.Template, error) {
	tmpl, err := template.New("").Funcs(FuncMap()).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return tmpl, nil
}

// FuncMap 是页面模板使用的辅助函数。
func FuncMap() template.FuncMap {
	return template.FuncMap{
		"markdown":  Markdown,
		"techStack": TechStack,
		"period":    Period,
		"deref":     Deref,
		"present":   Present,
	}
}

// Markdown 把文本渲染为 HTML。
func Markdown(text string) template.HTML {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}
	var out bytes.Buffer
	if err := markdownEngine.Convert([]byte(text), &out); err != nil {
		return template.HTML(template.HTMLEscapeString(text))
	}
	return template.HTML(out.String())
}

// TechStack 拆分逗号分隔的技术栈，去掉空白与空项。
func TechStack(s *string) []string {
	if s == nil {
		return nil
	}
	var out []string
	for _, part := range strings.Split(*s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Period 格式化任职时间段，结束时间为空显示 Present。
func Period(start string, end *string) string {
	finish := "Present"
	if end != nil && strings.TrimSpace(*end) != "" {
		finish = strings.TrimSpace(*end)
	}
	return strings.TrimSpace(start) + " - " + finish
}

func Deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// Present 判断可选字段是否有内容。
func Present(s *string) bool {
	return s != nil && strings.TrimSpace(*s) != ""
}
