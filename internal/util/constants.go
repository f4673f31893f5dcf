package util

const (
	DateFormat = "2006-01-02"
	TimeFormat = "2006-01-02 15:04:05"
)

const (
	// TaskCompletionPoints 每次任务打卡获得的积分
	TaskCompletionPoints = 100
	// RewardMinPoints 自定义奖励的最低积分门槛
	RewardMinPoints = 50
	// RecentTransactionLimit 积分页返回的最近流水条数
	RecentTransactionLimit = 10
)

const (
	StorageLocal = "local"
	StorageMinio = "minio"
)
