package repoargs

type RepositoryName string

const (
	UserRepoName    RepositoryName = "user"
	ProductRepoName RepositoryName = "product"
	OrderRepoName   RepositoryName = "order"
	PaymentRepoName RepositoryName = "payment"
)
