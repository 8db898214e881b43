package nlp

import (
	"math"
	"sort"
	"strings"
	"unicode"
)

// 本包提供流水线共享的词法统计原语：分词、停用词过滤、
// 关键词提取（词频×稀有度加权）和余弦相似度。
// 所有函数都是纯函数，不持有可变状态，可被并发请求安全复用。

// Keyword 一个带权重的关键词
type Keyword struct {
	Term   string
	Weight float64
}

// TermVector 词到权重的稀疏向量
type TermVector map[string]float64

// isTokenRune 判断字符是否属于词内字符
// '+' 与 '#' 保留以支持 c++ / c# 这类技能词，'.' 保留以支持 node.js
func isTokenRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '+' || r == '#' || r == '.'
}

// Tokenize 将文本切分为规范化(小写)的词元序列，保留出现顺序与重复
func Tokenize(text string) []string {
	lower := strings.ToLower(text)
	tokens := make([]string, 0, len(lower)/6)

	var b strings.Builder
	flush := func() {
		if b.Len() == 0 {
			return
		}
		tok := strings.Trim(b.String(), ".")
		b.Reset()
		if len(tok) < 2 {
			return
		}
		tokens = append(tokens, tok)
	}

	for _, r := range lower {
		if isTokenRune(r) {
			b.WriteRune(r)
		} else {
			flush()
		}
	}
	flush()
	return tokens
}

// FilterStopwords 去除停用词后的词元序列
func FilterStopwords(tokens []string) []string {
	out := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if !stopwords[tok] {
			out = append(out, tok)
		}
	}
	return out
}

// ContentTokens 分词并去除停用词
func ContentTokens(text string) []string {
	return FilterStopwords(Tokenize(text))
}

// TokenSet 内容词元的集合形式
func TokenSet(text string) map[string]bool {
	set := make(map[string]bool)
	for _, tok := range ContentTokens(text) {
		set[tok] = true
	}
	return set
}

// Rarity 词在通用语言基线中的稀有度，取值 (0,1]
// 基线中不存在的词视为最稀有，权重为 1
func Rarity(term string) float64 {
	freq, ok := baselineFrequency[term]
	if !ok {
		return 1.0
	}
	return 1.0 / (1.0 + math.Log1p(freq))
}

// Vector 将文本转为 词频×稀有度 加权的词向量
func Vector(text string) TermVector {
	vec := make(TermVector)
	for _, tok := range ContentTokens(text) {
		vec[tok] += Rarity(tok)
	}
	return vec
}

// ExtractKeywords 提取最多 limit 个按权重降序排列的关键词
// 权重相同的词按字典序排列，保证结果确定
func ExtractKeywords(text string, limit int) []Keyword {
	return KeywordsFromVector(Vector(text), limit)
}

// KeywordsFromVector 将词向量排列为按权重降序的关键词序列
// 预先计算（或缓存）的权重集经由本函数复用，排序规则与 ExtractKeywords 一致
func KeywordsFromVector(vec TermVector, limit int) []Keyword {
	keywords := make([]Keyword, 0, len(vec))
	for term, weight := range vec {
		keywords = append(keywords, Keyword{Term: term, Weight: weight})
	}
	sort.Slice(keywords, func(i, j int) bool {
		if keywords[i].Weight != keywords[j].Weight {
			return keywords[i].Weight > keywords[j].Weight
		}
		return keywords[i].Term < keywords[j].Term
	})

	if limit > 0 && len(keywords) > limit {
		keywords = keywords[:limit]
	}
	return keywords
}

// CosineSimilarity 两个词向量的余弦相似度，取值 [0,1]
// 权重非负，因此结果天然非负；空向量相似度为 0
func CosineSimilarity(a, b TermVector) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	// 遍历较小的向量
	if len(b) < len(a) {
		a, b = b, a
	}

	var dot float64
	for term, wa := range a {
		if wb, ok := b[term]; ok {
			dot += wa * wb
		}
	}
	if dot == 0 {
		return 0
	}

	var normA, normB float64
	for _, w := range a {
		normA += w * w
	}
	for _, w := range b {
		normB += w * w
	}

	sim := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	return math.Min(1.0, math.Max(0.0, sim))
}
