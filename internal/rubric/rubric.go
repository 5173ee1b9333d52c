// Package rubric holds the static contribution scoring table. Categories and
// subcategories are fixed policy, not data, so they live in code.
package rubric

// HourlyCategory is scored per hour instead of as a flat award.
const HourlyCategory = "其他贡献"

var categories = map[string]map[string]int{
	"教学科研成果及竞赛": {
		"国家级": 30,
		"省级":  20,
		"市县级": 15,
		"校级":  10,
		"院级":  5,
	},
	"学业奖": {
		"国家奖学金":     30,
		"校级奖学金一等奖": 10,
		"校级奖学金二等奖": 8,
		"校级奖学金三等奖": 5,
		"单项奖学金":     3,
	},
	"荣誉": {
		"优秀毕业生省级":   20,
		"三好学生省级":    20,
		"优秀学生干部省级": 20,
		"先进班级省级":    20,
		"优秀实践团队省级": 20,
		"优秀毕业生校级":   10,
		"三好学生校级":    10,
		"优秀学生干部校级": 10,
		"先进班级校级":    10,
		"优秀实践团队校级": 10,
		"优秀志愿者校级以上": 10,
		"优秀志愿者校级":   6,
	},
	"任职": {
		"校级组织主职":  10,
		"校级组织委员":  8,
		"院级组织主职":  8,
		"院级组织委员":  6,
		"班级组织主职":  6,
		"班级组织委员":  4,
		"兴趣社组织主职": 5,
		"兴趣社组织委员": 3,
	},
	"创新": {
		"挑战杯":  10,
		"新型团队": 10,
		"结对帮扶": 10,
	},
	HourlyCategory: {
		"义务劳动":    1,
		"教学助手":    1,
		"体质提升计划": 1,
	},
}

// BaseValue returns the fixed point value for a (category, subcategory) pair.
func BaseValue(category, subcategory string) (int, bool) {
	subs, ok := categories[category]
	if !ok {
		return 0, false
	}
	v, ok := subs[subcategory]
	return v, ok
}

// Points computes the awarded points for a claim. The hourly category
// multiplies the base value by the submitted hour count; hours below one
// count as one.
func Points(category, subcategory string, hours int) (int, bool) {
	base, ok := BaseValue(category, subcategory)
	if !ok {
		return 0, false
	}
	if category == HourlyCategory {
		if hours < 1 {
			hours = 1
		}
		return base * hours, true
	}
	return base, true
}
