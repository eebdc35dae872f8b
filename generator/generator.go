package generator

import (
	"bytes"
	"encoding/binary"
	"net"

	"github.com/bwmarrin/snowflake"
)

func IDbyIP(ip string) uint32 {
	var id uint32
	binary.Read(bytes.NewBuffer(net.ParseIP(ip).To4()), binary.BigEndian, &id)
	return id
}

// LocalIP 第一个非回环的 IPv4 地址，找不到时返回 127.0.0.1
func LocalIP() string {
	addrs, err := net.InterfaceAddrs()
	if err != nil {
		return "127.0.0.1"
	}

	for _, addr := range addrs {
		if ipnet, ok := addr.(*net.IPNet); ok && !ipnet.IP.IsLoopback() && ipnet.IP.To4() != nil {
			return ipnet.IP.String()
		}
	}

	return "127.0.0.1"
}

// RunID 本次采集的唯一 id，节点号取自 ip 的低 10 位
func RunID(ip string) (snowflake.ID, error) {
	node, err := snowflake.NewNode(int64(IDbyIP(ip) % 1024))
	if err != nil {
		return 0, err
	}

	return node.Generate(), nil
}
