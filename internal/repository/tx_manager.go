package repository

import "context"

// トランザクション内で使う約束
type TxRepos interface {
	Carts() CartStore
	Checkouts() CheckoutRepository
}

// UsecaseからTxの開始/commit/rollbackを隠す。
// redis実装は書き込みをMULTI/EXECにまとめるだけなので、中で読み取りはしない。
type TransactionManager interface {
	WithinTx(ctx context.Context, fn func(r TxRepos) error) error
}
