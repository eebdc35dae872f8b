package spider

// DataRepository 新增记录的旁路输出（例如 SQL 镜像）
type DataRepository interface {
	Save(records ...Record) error
	Flush() error
	Close() error
}

type EmptyDataRepository struct{}

func (EmptyDataRepository) Save(records ...Record) error {
	return nil
}

func (EmptyDataRepository) Flush() error {
	return nil
}

func (EmptyDataRepository) Close() error {
	return nil
}
