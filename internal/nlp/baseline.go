package nlp

// stopwords 英文停用词表，进入词向量前被全部过滤
var stopwords = map[string]bool{
	"a": true, "about": true, "above": true, "after": true, "again": true,
	"against": true, "all": true, "am": true, "an": true, "and": true,
	"any": true, "are": true, "as": true, "at": true, "be": true,
	"because": true, "been": true, "before": true, "being": true, "below": true,
	"between": true, "both": true, "but": true, "by": true, "can": true,
	"could": true, "did": true, "do": true, "does": true, "doing": true,
	"down": true, "during": true, "each": true, "few": true, "for": true,
	"from": true, "further": true, "had": true, "has": true, "have": true,
	"having": true, "he": true, "her": true, "here": true, "hers": true,
	"herself": true, "him": true, "himself": true, "his": true, "how": true,
	"i": true, "if": true, "in": true, "into": true, "is": true,
	"it": true, "its": true, "itself": true, "just": true, "me": true,
	"more": true, "most": true, "my": true, "myself": true, "no": true,
	"nor": true, "not": true, "now": true, "of": true, "off": true,
	"on": true, "once": true, "only": true, "or": true, "other": true,
	"our": true, "ours": true, "ourselves": true, "out": true, "over": true,
	"own": true, "same": true, "she": true, "should": true, "so": true,
	"some": true, "such": true, "than": true, "that": true, "the": true,
	"their": true, "theirs": true, "them": true, "themselves": true, "then": true,
	"there": true, "these": true, "they": true, "this": true, "those": true,
	"through": true, "to": true, "too": true, "under": true, "until": true,
	"up": true, "very": true, "was": true, "we": true, "were": true,
	"what": true, "when": true, "where": true, "which": true, "while": true,
	"who": true, "whom": true, "why": true, "will": true, "with": true,
	"would": true, "you": true, "your": true, "yours": true, "yourself": true,
	"yourselves": true,
}

// baselineFrequency 通用语言基线词频（近似每百万词出现次数）
// 在输入中常见但在基线中罕见的词获得更高的关键词权重。
// 表中未出现的词视为最稀有。数值只需保持相对大小，
// 启动后只读，并发读取无需同步。
var baselineFrequency = map[string]float64{
	// 高频通用词
	"time": 1800, "people": 1600, "year": 1500, "years": 1400, "way": 1300,
	"day": 1200, "man": 1100, "thing": 1050, "world": 1000, "life": 980,
	"hand": 900, "part": 880, "place": 860, "week": 820, "case": 800,
	"point": 780, "number": 760, "group": 720, "problem": 700, "fact": 680,
	"good": 1200, "new": 1150, "first": 1100, "last": 1050, "long": 1000,
	"great": 950, "little": 900, "old": 850, "right": 820, "big": 780,
	"high": 760, "different": 720, "small": 700, "large": 680, "next": 650,
	"early": 620, "young": 600, "important": 580, "public": 540, "bad": 500,
	"get": 1300, "make": 1250, "know": 1200, "take": 1100, "see": 1050,
	"come": 1000, "think": 950, "look": 900, "want": 850, "give": 800,
	"use": 780, "find": 750, "tell": 720, "ask": 680, "seem": 620,
	"feel": 600, "try": 580, "leave": 540, "call": 520, "also": 900,
	"well": 850, "even": 800, "back": 780, "still": 700, "must": 600,
	"like": 1000, "many": 900, "much": 850, "need": 700, "us": 650,

	// 招聘与简历场景中的常见词，降低其关键词权重
	"work": 1000, "working": 600, "job": 500, "role": 400, "team": 700,
	"teams": 300, "company": 600, "business": 550, "experience": 650,
	"experienced": 200, "skills": 450, "skill": 200, "knowledge": 350,
	"ability": 300, "strong": 350, "looking": 400, "seeking": 150,
	"join": 250, "candidate": 180, "candidates": 120, "required": 280,
	"requirements": 220, "requirement": 100, "preferred": 120,
	"responsibilities": 140, "responsible": 200, "position": 260,
	"opportunity": 200, "development": 500, "developer": 220, "engineer": 320,
	"engineering": 300, "software": 420, "technology": 380, "technical": 300,
	"project": 500, "projects": 320, "product": 480, "products": 260,
	"service": 450, "services": 320, "system": 480, "systems": 360,
	"application": 280, "applications": 240, "design": 420, "designed": 150,
	"build": 300, "building": 260, "built": 180, "develop": 240,
	"developed": 220, "developing": 160, "manage": 200, "managed": 180,
	"management": 380, "support": 400, "plus": 180, "bonus": 90,
	"environment": 260, "tools": 220, "solutions": 200, "data": 520,
	"quality": 280, "process": 340, "processes": 180, "degree": 160,
	"bachelor": 80, "university": 240, "education": 260, "client": 200,
	"clients": 180, "customer": 300, "customers": 240, "help": 420,
	"including": 300, "related": 220, "etc": 200, "using": 340,
	"used": 400, "across": 260, "within": 280, "ensure": 160,
	"excellent": 140, "communication": 220, "written": 160, "verbal": 60,
}
