package rubric

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBaseValue(t *testing.T) {
	v, ok := BaseValue("教学科研成果及竞赛", "国家级")
	require.True(t, ok)
	require.Equal(t, 30, v)

	v, ok = BaseValue("学业奖", "单项奖学金")
	require.True(t, ok)
	require.Equal(t, 3, v)

	_, ok = BaseValue("不存在的类别", "国家级")
	require.False(t, ok)

	_, ok = BaseValue("教学科研成果及竞赛", "不存在的子类")
	require.False(t, ok)
}

func TestPoints_FlatCategoryIgnoresHours(t *testing.T) {
	p, ok := Points("荣誉", "优秀志愿者校级", 10)
	require.True(t, ok)
	require.Equal(t, 6, p)
}

func TestPoints_HourlyCategoryMultiplies(t *testing.T) {
	p, ok := Points(HourlyCategory, "义务劳动", 3)
	require.True(t, ok)
	require.Equal(t, 3, p)

	// Hours below one count as one.
	p, ok = Points(HourlyCategory, "教学助手", 0)
	require.True(t, ok)
	require.Equal(t, 1, p)
}
