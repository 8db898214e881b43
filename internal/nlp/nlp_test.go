package nlp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestTokenize 验证分词的小写化、标点切分与特殊技能词保留
func TestTokenize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "普通英文句子",
			input:    "Built REST services in Go, deployed on AWS.",
			expected: []string{"built", "rest", "services", "in", "go", "deployed", "on", "aws"},
		},
		{
			name:     "保留c++与c#",
			input:    "Proficient in C++ and C#",
			expected: []string{"proficient", "in", "c++", "and", "c#"},
		},
		{
			name:     "保留node.js并去掉句尾句点",
			input:    "Node.js.",
			expected: []string{"node.js"},
		},
		{
			name:     "过滤单字符词元",
			input:    "a b python",
			expected: []string{"python"},
		},
		{
			name:     "空文本",
			input:    "",
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Tokenize(tt.input))
		})
	}
}

// TestFilterStopwords 验证停用词被剔除且顺序保留
func TestFilterStopwords(t *testing.T) {
	tokens := Tokenize("looking for a python and rust engineer")
	filtered := FilterStopwords(tokens)
	assert.Equal(t, []string{"looking", "python", "rust", "engineer"}, filtered)
}

// TestRarity 基线中罕见的词应比常见词权重更高
func TestRarity(t *testing.T) {
	assert.Greater(t, Rarity("rust"), Rarity("engineer"), "rust 不在基线中，应比 engineer 更稀有")
	assert.Greater(t, Rarity("engineer"), Rarity("work"), "engineer 应比 work 更稀有")
	assert.Equal(t, 1.0, Rarity("kubernetes"), "基线外的词稀有度应为 1")
}

// TestExtractKeywords 验证关键词按 词频×稀有度 降序排列
func TestExtractKeywords(t *testing.T) {
	text := "rust rust python work work work work"
	keywords := ExtractKeywords(text, 10)
	require.Len(t, keywords, 3)

	// rust 出现两次且稀有度为1，应排第一
	assert.Equal(t, "rust", keywords[0].Term)
	terms := []string{keywords[0].Term, keywords[1].Term, keywords[2].Term}
	assert.Contains(t, terms, "python")
	assert.Contains(t, terms, "work")

	// limit 生效
	limited := ExtractKeywords(text, 1)
	require.Len(t, limited, 1)
	assert.Equal(t, "rust", limited[0].Term)
}

// TestExtractKeywordsDeterministic 相同输入必须产生完全一致的输出
func TestExtractKeywordsDeterministic(t *testing.T) {
	text := "python go rust sql kafka redis postgres terraform ansible docker"
	first := ExtractKeywords(text, 0)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, ExtractKeywords(text, 0))
	}
}

// TestCosineSimilarity 验证相似度的边界性质
func TestCosineSimilarity(t *testing.T) {
	a := Vector("python go sql backend development")

	t.Run("自身相似度为1", func(t *testing.T) {
		assert.InDelta(t, 1.0, CosineSimilarity(a, a), 1e-9)
	})

	t.Run("无交集相似度为0", func(t *testing.T) {
		b := Vector("painting sculpture watercolor")
		assert.Equal(t, 0.0, CosineSimilarity(a, b))
	})

	t.Run("空向量相似度为0", func(t *testing.T) {
		assert.Equal(t, 0.0, CosineSimilarity(a, TermVector{}))
		assert.Equal(t, 0.0, CosineSimilarity(TermVector{}, TermVector{}))
	})

	t.Run("部分交集介于0和1之间", func(t *testing.T) {
		b := Vector("python rust frontend")
		sim := CosineSimilarity(a, b)
		assert.Greater(t, sim, 0.0)
		assert.Less(t, sim, 1.0)
	})

	t.Run("对称性", func(t *testing.T) {
		b := Vector("python rust frontend")
		assert.InDelta(t, CosineSimilarity(a, b), CosineSimilarity(b, a), 1e-12)
	})
}

// TestTokenSet 验证集合形式不含停用词
func TestTokenSet(t *testing.T) {
	set := TokenSet("Skills: Python, Go, SQL")
	assert.True(t, set["python"])
	assert.True(t, set["go"])
	assert.True(t, set["sql"])
	assert.True(t, set["skills"])
	assert.False(t, set["the"])
}
