package order

import (
	"fmt"
	"math/rand"
	"sync/atomic"
	"time"
)

// 序号起点随机,降低多实例同一秒内撞号的概率
var orderSeq atomic.Uint64

func init() {
	orderSeq.Store(uint64(rand.Intn(1000000)))
}

// GenerateOrderNo 生成订单号
// 格式: ORD + 时间戳(秒) + 6位序号,例如 ORD1699248000123456
// 同一进程内一秒钟不超过一百万单时不会重复,跨实例冲突由唯一索引兜底
func GenerateOrderNo() string {
	return generateOrderNo(time.Now())
}

func generateOrderNo(now time.Time) string {
	seq := orderSeq.Add(1) % 1000000
	return fmt.Sprintf("ORD%d%06d", now.Unix(), seq)
}
