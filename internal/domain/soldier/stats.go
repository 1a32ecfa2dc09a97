package soldier

// Stats is the derived aggregate of a division's soldiers.
//
// Averaged fields divide by Count; summed fields are plain totals.
// AverageSpeed already includes the terrain movement-cost factor.
type Stats struct {
	Count        int
	AverageSpeed float64
	AverageSight float64
	TotalHealth  float64
	TotalDamage  float64
	TotalSupply  float64
	MaxRange     float64
}

// Aggregate zeroes and re-sums every derived field in a single pass.
// terrainCost multiplies the speed aggregate; non-positive values count as 1.
func Aggregate(soldiers []*Soldier, terrainCost float64) Stats {
	var st Stats
	if terrainCost <= 0 {
		terrainCost = 1
	}
	for _, s := range soldiers {
		st.Count++
		st.AverageSpeed += s.Speed
		st.AverageSight += s.SightRadius
		st.TotalHealth += s.Health
		st.TotalDamage += s.Damage
		st.TotalSupply += s.Supply
		if s.WeaponRange > st.MaxRange {
			st.MaxRange = s.WeaponRange
		}
	}
	if st.Count > 0 {
		st.AverageSpeed = st.AverageSpeed / float64(st.Count) * terrainCost
		st.AverageSight = st.AverageSight / float64(st.Count)
	}
	return st
}
