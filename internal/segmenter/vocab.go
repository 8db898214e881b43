package segmenter

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"resume-ats-go/internal/types"
)

// Vocab 章节标题同义词表：章节标签 -> 同义词(小写)列表
// 作为可版本化的配置数据在启动时加载，扩充词表无需改动切分逻辑
type Vocab map[types.SectionType][]string

// DefaultHeadingVocab 内置的标题同义词表
func DefaultHeadingVocab() Vocab {
	return Vocab{
		types.SectionContact: {
			"contact", "contact information", "contact info",
			"personal details", "personal information",
		},
		types.SectionSummary: {
			"summary", "professional summary", "objective",
			"profile", "about", "about me",
		},
		types.SectionExperience: {
			"experience", "work experience", "employment",
			"employment history", "work history",
			"professional experience", "internship", "internships",
		},
		types.SectionEducation: {
			"education", "academic background", "academics",
			"qualifications", "educational qualifications",
		},
		types.SectionSkills: {
			"skills", "technical skills", "core competencies",
			"competencies", "technologies", "tech stack",
		},
		types.SectionProjects: {
			"projects", "personal projects", "portfolio",
			"selected projects",
		},
		types.SectionCertifications: {
			"certifications", "certificates", "certification",
			"licenses", "licenses and certifications",
		},
	}
}

// vocabFile YAML词表文件的结构
type vocabFile struct {
	Version  string              `yaml:"version"`
	Headings map[string][]string `yaml:"headings"`
}

// LoadVocab 从YAML文件加载标题词表
// 未知的章节标签直接拒绝，防止词表与固定标签集漂移
func LoadVocab(path string) (Vocab, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取标题词表 %s 失败: %w", path, err)
	}

	var f vocabFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("解析标题词表 %s 失败: %w", path, err)
	}

	known := make(map[types.SectionType]bool, len(types.AllSectionTypes))
	for _, t := range types.AllSectionTypes {
		known[t] = true
	}

	vocab := make(Vocab, len(f.Headings))
	for label, synonyms := range f.Headings {
		t := types.SectionType(label)
		if !known[t] {
			return nil, fmt.Errorf("标题词表中存在未知章节标签: %s", label)
		}
		vocab[t] = synonyms
	}
	return vocab, nil
}
