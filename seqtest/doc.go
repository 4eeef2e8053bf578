// Package seqtest provides reusable contract tests for sequence containers
// and for seq.Store implementations.
//
// Container implementations run the same checks the reference suite runs
// against a dynamic array:
//
//	func TestVectorContract(t *testing.T) {
//		seqtest.RunContainerContract(t, func() seqtest.Container {
//			return seq.NewVector[int]()
//		}, seqtest.Options{Seed: 42})
//		seqtest.RunContainerProperties(t, func() seqtest.Container {
//			return seq.NewVector[int]()
//		})
//	}
//
// Driver tests check their store with RunStoreContract:
//
//	func TestRedisStoreContract(t *testing.T) {
//		store := seq.NewRedisStore(ctx, newTestRedisClient(t), seq.WithPrefix("test"))
//		seqtest.RunStoreContract(t, store, seqtest.StoreOptions{CaseName: t.Name()})
//	}
package seqtest
