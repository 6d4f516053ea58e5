package database

import (
	"fmt"
	"log"

	"homeledger/config"
	"homeledger/models"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// Init 初始化数据库连接
func Init(cfg *config.Config) error {
	// 构建 MySQL DSN 连接字符串
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=%s&parseTime=True&loc=Local",
		cfg.Database.Username,
		cfg.Database.Password,
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.DBName,
		cfg.Database.Charset,
	)

	var err error
	DB, err = gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})
	if err != nil {
		return fmt.Errorf("连接数据库失败: %w", err)
	}

	// 获取底层 *sql.DB 连接池配置
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}

	// 设置连接池参数
	sqlDB.SetMaxIdleConns(10)  // 最大空闲连接数
	sqlDB.SetMaxOpenConns(100) // 最大打开连接数

	// 自动迁移数据库表
	if err := DB.AutoMigrate(
		&models.Household{},
		&models.User{},
		&models.Account{},
		&models.Category{},
		&models.Transaction{},
	); err != nil {
		return err
	}

	if err := seedDefaults(); err != nil {
		return err
	}

	log.Println("数据库初始化成功")
	return nil
}

// seedDefaults 仅当 households 表为空时，建一个默认家庭并挂上默认分类树
func seedDefaults() error {
	var count int64
	DB.Model(&models.Household{}).Count(&count)
	if count > 0 {
		return nil
	}

	household := models.Household{Name: "Family"}
	if err := DB.Create(&household).Error; err != nil {
		return err
	}

	type seedCategory struct {
		Name     string
		Color    string
		Icon     string
		Children []seedCategory
	}

	tree := []seedCategory{
		{Name: "餐饮", Color: "#ef4444", Icon: "utensils", Children: []seedCategory{
			{Name: "买菜", Color: "#f87171", Icon: "carrot"},
			{Name: "外出就餐", Color: "#fca5a5", Icon: "wine-glass"},
		}},
		{Name: "交通", Color: "#3b82f6", Icon: "car", Children: []seedCategory{
			{Name: "加油", Color: "#60a5fa", Icon: "gas-pump"},
			{Name: "公共交通", Color: "#93c5fd", Icon: "bus"},
		}},
		{Name: "购物", Color: "#a855f7", Icon: "bag-shopping"},
		{Name: "娱乐", Color: "#ec4899", Icon: "gamepad"},
		{Name: "医疗", Color: "#10b981", Icon: "stethoscope"},
		{Name: "住房", Color: "#14b8a6", Icon: "house", Children: []seedCategory{
			{Name: "房租房贷", Color: "#2dd4bf", Icon: "building"},
			{Name: "水电燃气", Color: "#5eead4", Icon: "bolt"},
		}},
		{Name: "收入", Color: "#22c55e", Icon: "sack-dollar", Children: []seedCategory{
			{Name: "工资", Color: "#4ade80", Icon: "briefcase"},
			{Name: "理财", Color: "#86efac", Icon: "chart-line"},
		}},
		{Name: "其他", Color: "#64748b", Icon: "ellipsis"},
	}

	var insert func(items []seedCategory, parentID *string) error
	insert = func(items []seedCategory, parentID *string) error {
		for _, item := range items {
			category := models.Category{
				Name:        item.Name,
				Color:       item.Color,
				Icon:        item.Icon,
				ParentID:    parentID,
				HouseholdID: household.ID,
			}
			if err := DB.Create(&category).Error; err != nil {
				return err
			}
			if len(item.Children) > 0 {
				if err := insert(item.Children, &category.ID); err != nil {
					return err
				}
			}
		}
		return nil
	}

	return insert(tree, nil)
}

// GetDB 获取数据库连接
func GetDB() *gorm.DB {
	return DB
}
