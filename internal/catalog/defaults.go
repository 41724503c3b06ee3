package catalog

import "github.com/kitbuilder587/studynotes/internal/domain"

var defaultCourses = []domain.Course{
	{ID: 1, Title: "Python编程入门", Description: "从零开始学习Python语法、数据结构与常用标准库", Category: "编程语言", Level: "初级", Path: "/courses/python-basics"},
	{ID: 2, Title: "JavaScript核心基础", Description: "深入理解JavaScript变量、作用域、闭包与异步编程", Category: "编程语言", Level: "初级", Path: "/courses/javascript"},
	{ID: 3, Title: "Java面向对象编程", Description: "类、接口、继承与集合框架", Category: "编程语言", Level: "中级", Path: "/courses/java-oop"},
	{ID: 4, Title: "Go语言并发编程", Description: "goroutine、channel与sync包实战", Category: "编程语言", Level: "中级", Path: "/courses/go-concurrency"},
	{ID: 5, Title: "React前端开发实战", Description: "组件、Hooks与状态管理", Category: "前端开发", Level: "中级", Path: "/courses/react"},
	{ID: 6, Title: "Vue.js从入门到精通", Description: "响应式原理、组件化开发与Vue Router", Category: "前端开发", Level: "初级", Path: "/courses/vue"},
	{ID: 7, Title: "Node.js后端开发", Description: "Express、REST API设计与中间件", Category: "后端开发", Level: "中级", Path: "/courses/nodejs"},
	{ID: 8, Title: "数据结构与算法", Description: "数组、链表、树、图与经典算法题解", Category: "计算机基础", Level: "中级", Path: "/courses/algorithms"},
	{ID: 9, Title: "机器学习入门", Description: "使用Python和scikit-learn完成回归与分类任务", Category: "人工智能", Level: "高级", Path: "/courses/machine-learning"},
	{ID: 10, Title: "MySQL数据库设计", Description: "表设计、索引优化与SQL查询", Category: "数据库", Level: "中级", Path: "/courses/mysql"},
	{ID: 11, Title: "Docker容器化部署", Description: "镜像构建、容器编排与Compose", Category: "运维部署", Level: "中级", Path: "/courses/docker"},
	{ID: 12, Title: "Linux命令行基础", Description: "常用命令、Shell脚本与权限管理", Category: "运维部署", Level: "初级", Path: "/courses/linux"},
}

var defaultTools = []domain.Tool{
	{ID: 1, Name: "VS Code", Description: "轻量级代码编辑器，支持Python、JavaScript等多种语言插件", Category: "代码编辑器", URL: "https://code.visualstudio.com"},
	{ID: 2, Name: "Git", Description: "分布式版本控制系统", Category: "版本控制", URL: "https://git-scm.com"},
	{ID: 3, Name: "GitHub", Description: "代码托管与协作平台", Category: "版本控制", URL: "https://github.com"},
	{ID: 4, Name: "Postman", Description: "API调试与测试工具", Category: "接口测试", URL: "https://www.postman.com"},
	{ID: 5, Name: "Docker Desktop", Description: "本地容器开发环境", Category: "运维部署", URL: "https://www.docker.com/products/docker-desktop"},
	{ID: 6, Name: "Jupyter Notebook", Description: "交互式Python数据分析与可视化环境", Category: "数据科学", URL: "https://jupyter.org"},
	{ID: 7, Name: "PyCharm", Description: "JetBrains出品的Python集成开发环境", Category: "代码编辑器", URL: "https://www.jetbrains.com/pycharm"},
	{ID: 8, Name: "Chrome DevTools", Description: "浏览器内置的前端调试工具", Category: "前端开发", URL: "https://developer.chrome.com/docs/devtools"},
	{ID: 9, Name: "Navicat", Description: "图形化数据库管理工具，支持MySQL、PostgreSQL", Category: "数据库", URL: "https://www.navicat.com"},
	{ID: 10, Name: "LeetCode", Description: "算法刷题与面试准备平台", Category: "算法练习", URL: "https://leetcode.cn"},
}
