package analyzer

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// 技能分类标签
const (
	CategoryLanguage      = "language"
	CategoryWeb           = "web"
	CategoryDatabase      = "database"
	CategoryCloud         = "cloud"
	CategoryData          = "data"
	CategoryTools         = "tools"
	CategoryTesting       = "testing"
	CategoryMobile        = "mobile"
	CategorySoft          = "soft"
	CategoryUncategorized = "uncategorized"
)

// SkillsDictionary 规范技能词典，匹配时对大小写与标点不敏感
type SkillsDictionary struct {
	categories map[string]string // 规范名 -> 分类
	index      map[string]string // 归一化键（含别名） -> 规范名
	terms      []string          // 所有可匹配词形，按长度降序，用于叙述扫描
	termOwner  map[string]string // 词形 -> 规范名
}

// defaultSkillGroups 内置技能分组
var defaultSkillGroups = map[string][]string{
	CategoryLanguage: {
		"python", "java", "javascript", "typescript", "c++", "c#", "go",
		"rust", "ruby", "php", "swift", "kotlin", "scala", "r", "matlab",
	},
	CategoryWeb: {
		"react", "angular", "vue.js", "node.js", "express", "django",
		"flask", "fastapi", "spring boot", "html", "css", "sass", "gin",
	},
	CategoryDatabase: {
		"sql", "mysql", "postgresql", "mongodb", "redis", "elasticsearch",
		"sqlite", "oracle", "cassandra", "dynamodb",
	},
	CategoryCloud: {
		"aws", "azure", "google cloud", "docker", "kubernetes", "terraform",
		"jenkins", "ci/cd", "linux", "nginx",
	},
	CategoryData: {
		"machine learning", "deep learning", "tensorflow", "pytorch",
		"pandas", "numpy", "scikit-learn", "spark", "hadoop", "kafka",
		"airflow", "tableau", "power bi", "nlp",
	},
	CategoryTools: {
		"git", "jira", "confluence", "agile", "scrum", "rest api",
		"graphql", "grpc", "microservices", "oauth",
	},
	CategoryTesting: {
		"unit testing", "integration testing", "selenium", "cypress",
		"jest", "pytest", "tdd",
	},
	CategoryMobile: {
		"android", "ios", "react native", "flutter",
	},
	CategorySoft: {
		"leadership", "communication", "teamwork", "problem solving",
		"project management", "mentoring", "collaboration",
		"time management", "critical thinking", "stakeholder management",
	},
}

// defaultAliases 别名 -> 规范名
var defaultAliases = map[string]string{
	"js":         "javascript",
	"ts":         "typescript",
	"golang":     "go",
	"nodejs":     "node.js",
	"node":       "node.js",
	"vuejs":      "vue.js",
	"vue":        "vue.js",
	"reactjs":    "react",
	"postgres":   "postgresql",
	"k8s":        "kubernetes",
	"gcp":        "google cloud",
	"es":         "elasticsearch",
	"ml":         "machine learning",
	"sklearn":    "scikit-learn",
	"springboot": "spring boot",
	"restful":    "rest api",
	"rest":       "rest api",
}

// DefaultSkillsDictionary 返回内置词典
func DefaultSkillsDictionary() *SkillsDictionary {
	return buildDictionary(defaultSkillGroups, defaultAliases)
}

// skillsFile 技能词典文件结构
type skillsFile struct {
	Version    string              `yaml:"version"`
	Categories map[string][]string `yaml:"categories"`
	Aliases    map[string]string   `yaml:"aliases"`
}

// LoadSkillsDictionary 从 YAML 文件加载技能词典
func LoadSkillsDictionary(path string) (*SkillsDictionary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取技能词典文件失败: %w", err)
	}
	var f skillsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("解析技能词典文件失败: %w", err)
	}
	if len(f.Categories) == 0 {
		return nil, fmt.Errorf("技能词典文件 %s 未定义任何分类", path)
	}
	return buildDictionary(f.Categories, f.Aliases), nil
}

func buildDictionary(groups map[string][]string, aliases map[string]string) *SkillsDictionary {
	d := &SkillsDictionary{
		categories: make(map[string]string),
		index:      make(map[string]string),
		termOwner:  make(map[string]string),
	}
	for category, skills := range groups {
		for _, skill := range skills {
			canonical := strings.ToLower(strings.TrimSpace(skill))
			if canonical == "" {
				continue
			}
			d.categories[canonical] = category
			d.index[normKey(canonical)] = canonical
			d.addTerm(canonical, canonical)
		}
	}
	for alias, canonical := range aliases {
		canonical = strings.ToLower(strings.TrimSpace(canonical))
		if _, ok := d.categories[canonical]; !ok {
			continue // 别名必须指向词典里的规范名
		}
		alias = strings.ToLower(strings.TrimSpace(alias))
		d.index[normKey(alias)] = canonical
		d.addTerm(alias, canonical)
	}
	sort.Slice(d.terms, func(i, j int) bool {
		if len(d.terms[i]) != len(d.terms[j]) {
			return len(d.terms[i]) > len(d.terms[j])
		}
		return d.terms[i] < d.terms[j]
	})
	return d
}

func (d *SkillsDictionary) addTerm(term, canonical string) {
	if _, ok := d.termOwner[term]; ok {
		return
	}
	d.termOwner[term] = canonical
	d.terms = append(d.terms, term)
}

// Category 规范名对应的分类，未收录返回 uncategorized
func (d *SkillsDictionary) Category(canonical string) string {
	if c, ok := d.categories[canonical]; ok {
		return c
	}
	return CategoryUncategorized
}

// Canonical 将任意写法归一到规范名，未收录返回 false
// "NodeJS"、"Node.js"、"node js" 均命中 node.js
func (d *SkillsDictionary) Canonical(raw string) (string, bool) {
	c, ok := d.index[normKey(raw)]
	return c, ok
}

// normKey 匹配键：小写并去除空格与常见连接标点
func normKey(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	for _, r := range s {
		switch r {
		case ' ', '\t', '.', '-', '_', '/':
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
