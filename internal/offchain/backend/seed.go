package backend

import (
	"context"
	"fmt"

	"votedesk/internal/offchain"
	"votedesk/pkg/domain"
)

var (
	seedNames  = []string{"Amina Okafor", "Bruno Costa", "Chen Wei", "Dara Singh", "Elif Yilmaz", "Femi Adeyemi", "Greta Lind"}
	seedCities = []string{"Lagos", "Porto", "Chengdu", "Pune", "Izmir", "Ibadan", "Malmo"}
)

// SeedAddress returns the deterministic address of the i-th seeded voter (1-based).
func SeedAddress(i int) domain.Address {
	return domain.MustAddress(fmt.Sprintf("0x%040x", 0x5eed0000+i))
}

// SeedVoters registers n unverified voters with deterministic addresses.
func SeedVoters(ctx context.Context, store *Store, n int) error {
	for i := 1; i <= n; i++ {
		k := (i - 1) % len(seedNames)
		_, err := store.RegisterVoter(ctx, offchain.VoterRegistration{
			Address:     SeedAddress(i),
			Name:        fmt.Sprintf("%s %d", seedNames[k], i),
			Gender:      []string{"female", "male"}[i%2],
			DateOfBirth: fmt.Sprintf("19%02d-%02d-%02d", 60+i%40, 1+i%12, 1+i%28),
			City:        seedCities[k],
			State:       "Demo",
			NationalID:  fmt.Sprintf("NID-%06d", i),
			Phone:       fmt.Sprintf("+1555%07d", i),
			Email:       fmt.Sprintf("voter%d@example.org", i),
		})
		if err != nil {
			return fmt.Errorf("seed voter %d: %w", i, err)
		}
	}
	return nil
}
